package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"
	"sally/pkg/database"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// revoked rows are kept this long before cleanup removes them
	revokedTokenRetention = 30 * 24 * time.Hour
)

// AuthService handles the access/refresh token lifecycle
type AuthService interface {
	Login(ctx context.Context, firebaseToken string, meta SessionMeta) (*models.TokenPair, *common.Identity, error)
	GenerateTokenPair(ctx context.Context, claims IdentityClaims, meta SessionMeta) (*models.TokenPair, error)
	ResolveIdentity(ctx context.Context, userID string) (*common.Identity, error)
	CurrentUser(ctx context.Context, userID string) (*models.UserWithTenant, error)
	ValidateRefreshToken(ctx context.Context, rawToken string) (*common.Identity, *models.RefreshToken, error)
	Refresh(ctx context.Context, rawToken string, meta SessionMeta) (*models.TokenPair, *common.Identity, error)
	Logout(ctx context.Context, rawToken string) error
	RevokeUserTokens(ctx context.Context, userID string) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
	AccessSecret() []byte
}

// IdentityClaims are the inputs for token issuance.
type IdentityClaims struct {
	UserID   string
	Email    string
	Role     models.UserRole
	TenantID string
	DriverID string
}

// SessionMeta describes the client a refresh token is issued to.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// AccessClaims is the payload of an access token
type AccessClaims struct {
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	TenantID string          `json:"tenantId"`
	DriverID string          `json:"driverId,omitempty"`
	Type     string          `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token
type RefreshClaims struct {
	TenantID string `json:"tenantId"`
	TokenID  string `json:"tokenId"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type authService struct {
	cfg       AuthConfig
	verifier  TokenVerifier
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	tx        database.TxManager
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthService(cfg AuthConfig, verifier TokenVerifier, userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository, tx database.TxManager, log *zap.Logger) AuthService {
	return &authService{
		cfg:       cfg,
		verifier:  verifier,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tx:        tx,
		log:       log.Named("auth"),
		now:       time.Now,
	}
}

func (s *authService) AccessSecret() []byte {
	return []byte(s.cfg.AccessSecret)
}

// Login exchanges a Firebase ID token for a SALLY token pair. An invited user
// without a linked Firebase account is linked by email on first login.
func (s *authService) Login(ctx context.Context, firebaseToken string, meta SessionMeta) (*models.TokenPair, *common.Identity, error) {
	fbToken, err := s.verifier.VerifyIDToken(ctx, firebaseToken)
	if err != nil {
		return nil, nil, common.Unauthorized("firebase token rejected: " + err.Error())
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, fbToken.UID)
	if errors.Is(err, common.ErrNotFound) && fbToken.Email != "" {
		user, err = s.linkInvitedUser(ctx, fbToken)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrConflict) {
			return nil, nil, common.Unauthorized("no user for firebase uid " + fbToken.UID)
		}
		return nil, nil, err
	}

	identity, err := identityFromUser(user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.GenerateTokenPair(ctx, claimsFor(identity), meta)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to record last login", zap.String("user_id", user.UserID), zap.Error(err))
	}

	return pair, identity, nil
}

func (s *authService) linkInvitedUser(ctx context.Context, fbToken *FirebaseToken) (*models.UserWithTenant, error) {
	user, err := s.userRepo.GetByEmail(ctx, fbToken.Email)
	if err != nil {
		return nil, err
	}
	if user.FirebaseUID != nil {
		return nil, common.Conflict("user already linked")
	}
	if err := s.userRepo.LinkFirebaseUID(ctx, user.ID, fbToken.UID); err != nil {
		return nil, err
	}
	uid := fbToken.UID
	user.FirebaseUID = &uid
	s.log.Info("linked firebase account to invited user", zap.String("user_id", user.UserID))
	return user, nil
}

// GenerateTokenPair signs an access and a refresh token and persists the
// refresh token's hash under a fresh token ID.
func (s *authService) GenerateTokenPair(ctx context.Context, claims IdentityClaims, meta SessionMeta) (*models.TokenPair, error) {
	now := s.now()
	tokenID, err := generateTokenID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	access := AccessClaims{
		Email:    claims.Email,
		Role:     claims.Role,
		TenantID: claims.TenantID,
		DriverID: claims.DriverID,
		Type:     tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessExpiry)),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(s.cfg.AccessSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	expiresAt := now.Add(s.cfg.RefreshExpiry)
	refresh := RefreshClaims{
		TenantID: claims.TenantID,
		TokenID:  tokenID,
		Type:     tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		TokenID:   tokenID,
		UserID:    claims.UserID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: expiresAt,
		UserAgent: common.StringPtr(meta.UserAgent),
		IPAddress: common.StringPtr(meta.IPAddress),
	}
	if err := s.tokenRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenID:      tokenID,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessExpiry.Seconds()),
	}, nil
}

// ResolveIdentity re-reads the user and tenant so deactivation takes effect
// on the next request.
func (s *authService) ResolveIdentity(ctx context.Context, userID string) (*common.Identity, error) {
	user, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthorized("user " + userID + " not found")
		}
		return nil, err
	}
	return identityFromUser(user)
}

// CurrentUser returns the user row joined with its tenant summary.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*models.UserWithTenant, error) {
	return s.userRepo.GetByUserID(ctx, userID)
}

func identityFromUser(user *models.UserWithTenant) (*common.Identity, error) {
	if !user.IsActive {
		return nil, common.Unauthorized("user " + user.UserID + " is inactive")
	}
	if user.Role != models.RoleSuperAdmin && !user.TenantIsActive {
		return nil, common.Unauthorized("tenant " + user.TenantExternalID + " is inactive")
	}
	return &common.Identity{
		UserID:     user.UserID,
		UserDBID:   user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		TenantID:   user.TenantExternalID,
		TenantDBID: user.TenantID,
		DriverID:   common.SafeString(user.DriverID),
	}, nil
}

func (s *authService) parseRefreshToken(rawToken string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.RefreshSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, common.Unauthorized("refresh token invalid: " + err.Error())
	}
	if claims.Type != tokenTypeRefresh || claims.TokenID == "" || claims.Subject == "" {
		return nil, common.Unauthorized("refresh token has unexpected claims")
	}
	return claims, nil
}

// ValidateRefreshToken checks signature, the stored row and the owning user.
func (s *authService) ValidateRefreshToken(ctx context.Context, rawToken string) (*common.Identity, *models.RefreshToken, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, nil, common.Unauthorized("refresh token missing")
	}

	claims, err := s.parseRefreshToken(rawToken)
	if err != nil {
		return nil, nil, err
	}

	row, err := s.tokenRepo.GetByTokenID(ctx, claims.TokenID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.Unauthorized("refresh token " + claims.TokenID + " unknown")
		}
		return nil, nil, err
	}
	if row.IsRevoked {
		return nil, nil, common.Unauthorized("refresh token " + row.TokenID + " revoked")
	}
	if !s.now().Before(row.ExpiresAt) {
		return nil, nil, common.Unauthorized("refresh token " + row.TokenID + " expired")
	}
	if subtle.ConstantTimeCompare([]byte(hashToken(rawToken)), []byte(row.TokenHash)) != 1 {
		return nil, nil, common.Unauthorized("refresh token " + row.TokenID + " hash mismatch")
	}
	if row.UserID != claims.Subject {
		return nil, nil, common.Unauthorized("refresh token " + row.TokenID + " subject mismatch")
	}

	identity, err := s.ResolveIdentity(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return identity, row, nil
}

// Refresh rotates the presented refresh token: the old row is revoked and a
// new pair is issued in the same transaction. Only the request that flips the
// row to revoked gets a pair; a concurrent replay of the same token is 401.
func (s *authService) Refresh(ctx context.Context, rawToken string, meta SessionMeta) (*models.TokenPair, *common.Identity, error) {
	identity, row, err := s.ValidateRefreshToken(ctx, rawToken)
	if err != nil {
		return nil, nil, err
	}

	var pair *models.TokenPair
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		revoked, err := s.tokenRepo.Revoke(ctx, row.TokenID)
		if err != nil {
			return err
		}
		if !revoked {
			return common.Unauthorized("refresh token " + row.TokenID + " already rotated")
		}
		pair, err = s.GenerateTokenPair(ctx, claimsFor(identity), meta)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return pair, identity, nil
}

// Logout revokes the refresh token if it still parses; access tokens expire naturally.
func (s *authService) Logout(ctx context.Context, rawToken string) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	claims, err := s.parseRefreshToken(rawToken)
	if err != nil {
		s.log.Debug("logout with unparseable refresh token", zap.Error(err))
		return nil
	}
	_, err = s.tokenRepo.Revoke(ctx, claims.TokenID)
	return err
}

func (s *authService) RevokeUserTokens(ctx context.Context, userID string) error {
	n, err := s.tokenRepo.RevokeAllForUser(ctx, userID)
	if err != nil {
		return err
	}
	s.log.Info("revoked user refresh tokens", zap.String("user_id", userID), zap.Int64("count", n))
	return nil
}

// CleanupExpiredTokens deletes expired rows and rows revoked more than 30 days ago.
func (s *authService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx, s.now().Add(-revokedTokenRetention))
}

func claimsFor(i *common.Identity) IdentityClaims {
	return IdentityClaims{
		UserID:   i.UserID,
		Email:    i.Email,
		Role:     i.Role,
		TenantID: i.TenantID,
		DriverID: i.DriverID,
	}
}

// generateTokenID returns 32 random bytes, hex encoded.
func generateTokenID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
