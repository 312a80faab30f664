package common

import (
	"context"
	"strconv"
	"strings"

	"sally/internal/models"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

// Identity is the authenticated principal resolved for a request. It is
// rebuilt from the database on every request, never trusted from the token alone.
type Identity struct {
	UserID     string
	UserDBID   int64
	Email      string
	FirstName  string
	LastName   string
	Role       models.UserRole
	TenantID   string
	TenantDBID int64
	DriverID   string
}

// IsSuperAdmin reports whether the identity operates across tenants.
func (i *Identity) IsSuperAdmin() bool {
	return i.Role == models.RoleSuperAdmin
}

// HasRole reports whether the identity holds any of roles.
func (i *Identity) HasRole(roles ...models.UserRole) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext extracts the identity from the request context
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(*Identity)
	return id, ok && id != nil
}

// ValidatePaginationParams parses limit/offset query values, applying defaults and bounds.
func ValidatePaginationParams(limitStr, offsetStr string) (int, int) {
	limit := 50
	if l, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil && l > 0 {
		limit = l
	}
	if limit > 200 {
		limit = 200
	}

	offset := 0
	if o, err := strconv.Atoi(strings.TrimSpace(offsetStr)); err == nil && o > 0 {
		offset = o
	}
	return limit, offset
}

// SafeString safely handles string pointer operations
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for blank strings.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
