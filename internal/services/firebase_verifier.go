package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	DefaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	firebaseIssuerPrefix   = "https://securetoken.google.com/"
)

// TokenVerifier validates an identity provider token.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

// FirebaseToken is the subset of a verified Firebase ID token SALLY uses.
type FirebaseToken struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type firebaseClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	jwt.RegisteredClaims
}

type firebaseVerifier struct {
	projectID string
	keyfunc   jwt.Keyfunc
	now       func() time.Time
}

// NewFirebaseVerifier fetches Google's signing keys and keeps them refreshed
// in the background until ctx is cancelled.
func NewFirebaseVerifier(ctx context.Context, projectID, jwksURL string, log *zap.Logger) (TokenVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	if jwksURL == "" {
		jwksURL = DefaultFirebaseJWKSURL
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn("firebase jwks refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load firebase jwks: %w", err)
	}

	return NewFirebaseVerifierWithKeyfunc(projectID, jwks.Keyfunc), nil
}

// NewFirebaseVerifierWithKeyfunc builds a verifier around an existing key source.
func NewFirebaseVerifierWithKeyfunc(projectID string, kf jwt.Keyfunc) TokenVerifier {
	return &firebaseVerifier{projectID: projectID, keyfunc: kf, now: time.Now}
}

func (v *firebaseVerifier) VerifyIDToken(_ context.Context, idToken string) (*FirebaseToken, error) {
	claims := &firebaseClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, v.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("firebase token has no subject")
	}

	return &FirebaseToken{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

type disabledVerifier struct{}

// NewDisabledVerifier rejects every token. It stands in when no Firebase
// project is configured outside production.
func NewDisabledVerifier() TokenVerifier {
	return disabledVerifier{}
}

func (disabledVerifier) VerifyIDToken(context.Context, string) (*FirebaseToken, error) {
	return nil, errors.New("firebase login is not configured")
}
