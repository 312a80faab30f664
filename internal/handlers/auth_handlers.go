package handlers

import (
	"net/http"
	"time"

	"sally/internal/common"
	"sally/internal/middleware"
	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	RefreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService   services.AuthService
	secureCookie  bool
	refreshMaxAge time.Duration
}

// NewAuthHandlers creates a new auth handlers instance. secureCookie should be
// true in production so the refresh cookie is only sent over TLS.
func NewAuthHandlers(authService services.AuthService, secureCookie bool, refreshMaxAge time.Duration) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		secureCookie:  secureCookie,
		refreshMaxAge: refreshMaxAge,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	FirebaseToken string `json:"firebase_token" validate:"required"`
}

// UserSummary is the user shape returned by the auth endpoints.
type UserSummary struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
	TenantID  string          `json:"tenant_id,omitempty"`
	DriverID  string          `json:"driver_id,omitempty"`
}

// TokenResponse is the body of login and refresh.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

func summaryOf(identity *common.Identity) UserSummary {
	return UserSummary{
		UserID:    identity.UserID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
		TenantID:  identity.TenantID,
		DriverID:  identity.DriverID,
	}
}

func sessionMeta(c echo.Context) services.SessionMeta {
	return services.SessionMeta{
		UserAgent: c.Request().UserAgent(),
		IPAddress: c.RealIP(),
	}
}

func (h *AuthHandlers) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) respondWithTokens(c echo.Context, pair *models.TokenPair, identity *common.Identity) error {
	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   pair.ExpiresIn,
		User:        summaryOf(identity),
	})
}

// Login exchanges a Firebase ID token for an access token and a refresh cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, identity, err := h.authService.Login(c.Request().Context(), req.FirebaseToken, sessionMeta(c))
	if err != nil {
		return err
	}
	return h.respondWithTokens(c, pair, identity)
}

// Refresh rotates the refresh cookie and returns a new access token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return common.Unauthorized("refresh cookie missing")
	}

	pair, identity, err := h.authService.Refresh(c.Request().Context(), cookie.Value, sessionMeta(c))
	if err != nil {
		h.clearRefreshCookie(c)
		return err
	}
	return h.respondWithTokens(c, pair, identity)
}

// Logout revokes the presented refresh token, if any, and clears the cookie.
// Access tokens stay valid until they expire.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(RefreshCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the current user with a summary of its tenant.
func (h *AuthHandlers) Me(c echo.Context) error {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	resp := map[string]interface{}{
		"user": user.User,
	}
	if user.TenantExternalID != "" {
		resp["tenant"] = map[string]interface{}{
			"tenant_id":    user.TenantExternalID,
			"company_name": user.TenantName,
			"subdomain":    user.TenantSubdomain,
			"status":       user.TenantStatus,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
