package models

import "time"

// RefreshToken stores only the SHA-256 hash of the signed refresh JWT.
type RefreshToken struct {
	TokenID   string     `json:"token_id" db:"token_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	IsRevoked bool       `json:"is_revoked" db:"is_revoked"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
	UserAgent *string    `json:"user_agent" db:"user_agent"`
	IPAddress *string    `json:"ip_address" db:"ip_address"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TokenPair is the result of issuing tokens for a user.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
	TokenID      string `json:"-"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
