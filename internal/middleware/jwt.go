package middleware

import (
	"context"
	"errors"

	"sally/internal/common"
	"sally/internal/services"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenContextKey = "user"

// IdentityResolver rebuilds the caller's identity from the database.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*common.Identity, error)
}

// JWTConfig validates access tokens from the Authorization header, falling
// back to ?token= for EventSource clients that cannot set headers.
func JWTConfig(secret []byte) echojwt.Config {
	return echojwt.Config{
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:Authorization:Bearer ,query:token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.Unauthorized("access token rejected: " + err.Error())
		},
	}
}

// Authenticate is echo-jwt followed by identity resolution.
func Authenticate(secret []byte, resolver IdentityResolver) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(JWTConfig(secret))
	resolve := ResolveIdentity(resolver)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(resolve(next))
	}
}

// ResolveIdentity loads the user named by the verified token and stores the
// resulting Identity in the request context.
func ResolveIdentity(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return common.Unauthorized("no verified token in context")
			}
			claims, ok := token.Claims.(*services.AccessClaims)
			if !ok || claims.Type != "access" || claims.Subject == "" {
				return common.Unauthorized("token is not an access token")
			}

			ctx := c.Request().Context()
			identity, err := resolver.ResolveIdentity(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					return err
				}
				return common.Unauthorized("identity lookup failed: " + err.Error())
			}

			c.SetRequest(c.Request().WithContext(common.WithIdentity(ctx, identity)))
			return next(c)
		}
	}
}

// GetIdentity returns the authenticated identity of the request.
func GetIdentity(c echo.Context) (*common.Identity, error) {
	identity, ok := common.IdentityFromContext(c.Request().Context())
	if !ok {
		return nil, common.Unauthorized("no identity in request context")
	}
	return identity, nil
}
