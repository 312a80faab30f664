package repositories

import (
	"context"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenID(ctx context.Context, tokenID string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenID string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, revokedBefore time.Time) (int64, error)
}

type refreshTokenRepo struct {
	db database.DB
}

func NewRefreshTokenRepo(db database.DB) RefreshTokenRepository {
	return &refreshTokenRepo{db: db}
}

func (r *refreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token_id, user_id, token_hash, expires_at, is_revoked, user_agent, ip_address, created_at)
		VALUES ($1, $2, $3, $4, false, $5, $6, NOW())
		RETURNING created_at
	`
	return database.Conn(ctx, r.db).QueryRow(ctx, query,
		token.TokenID, token.UserID, token.TokenHash, token.ExpiresAt, token.UserAgent, token.IPAddress,
	).Scan(&token.CreatedAt)
}

func (r *refreshTokenRepo) GetByTokenID(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	t := &models.RefreshToken{}
	query := `
		SELECT token_id, user_id, token_hash, expires_at, is_revoked, revoked_at, user_agent, ip_address, created_at
		FROM refresh_tokens
		WHERE token_id = $1
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, tokenID).Scan(
		&t.TokenID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.IsRevoked, &t.RevokedAt,
		&t.UserAgent, &t.IPAddress, &t.CreatedAt)
	if isNoRows(err) {
		return nil, common.NotFound("Refresh token not found")
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Revoke reports false when the row was already revoked or does not exist.
func (r *refreshTokenRepo) Revoke(ctx context.Context, tokenID string) (bool, error) {
	query := `UPDATE refresh_tokens SET is_revoked = true, revoked_at = NOW() WHERE token_id = $1 AND is_revoked = false`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, tokenID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *refreshTokenRepo) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE refresh_tokens SET is_revoked = true, revoked_at = NOW() WHERE user_id = $1 AND is_revoked = false`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteExpired removes rows past expiry and rows revoked before revokedBefore.
func (r *refreshTokenRepo) DeleteExpired(ctx context.Context, revokedBefore time.Time) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE expires_at < NOW() OR (is_revoked = true AND revoked_at < $1)
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, revokedBefore)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
