package repositories

import (
	"context"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/pkg/database"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUserID(ctx context.Context, userID string) (*models.UserWithTenant, error)
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.UserWithTenant, error)
	GetByEmail(ctx context.Context, email string) (*models.UserWithTenant, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByFirebaseUID(ctx context.Context, firebaseUID string) (bool, error)
	LinkFirebaseUID(ctx context.Context, id int64, firebaseUID string) error
	UpdateLastLogin(ctx context.Context, id int64) error
	ActivateTenantAdmins(ctx context.Context, tenantID int64) (int64, error)
	GetTenantOwner(ctx context.Context, tenantID int64) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID int64, roles []models.UserRole) ([]*models.User, error)
	Deactivate(ctx context.Context, tenantID int64, userID string) error
}

const userColumns = `u.id, u.user_id, u.tenant_id, u.email, u.firebase_uid, u.first_name, u.last_name,
		u.role, u.driver_id, u.is_active, u.last_login_at, u.created_at, u.updated_at`

const userWithTenantQuery = `
		SELECT ` + userColumns + `, t.tenant_id, t.company_name, t.subdomain, t.status, t.is_active
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
`

type userRepo struct {
	db database.DB
}

func NewUserRepo(db database.DB) UserRepository {
	return &userRepo{db: db}
}

func userFields(u *models.User) []any {
	return []any{&u.ID, &u.UserID, &u.TenantID, &u.Email, &u.FirebaseUID, &u.FirstName, &u.LastName,
		&u.Role, &u.DriverID, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt}
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(userFields(u)...); err != nil {
		return nil, err
	}
	return u, nil
}

func scanUserWithTenant(row scanner) (*models.UserWithTenant, error) {
	u := &models.UserWithTenant{}
	dest := append(userFields(&u.User), &u.TenantExternalID, &u.TenantName, &u.TenantSubdomain,
		&u.TenantStatus, &u.TenantIsActive)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, tenant_id, email, firebase_uid, first_name, last_name, role,
			driver_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		user.UserID, user.TenantID, strings.ToLower(user.Email), user.FirebaseUID, user.FirstName,
		user.LastName, user.Role, user.DriverID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("User with email %s already exists", user.Email)
	}
	return err
}

func (r *userRepo) getOne(ctx context.Context, where string, arg any) (*models.UserWithTenant, error) {
	u, err := scanUserWithTenant(database.Conn(ctx, r.db).QueryRow(ctx, userWithTenantQuery+where, arg))
	if isNoRows(err) {
		return nil, common.NotFound("User not found")
	}
	return u, err
}

func (r *userRepo) GetByUserID(ctx context.Context, userID string) (*models.UserWithTenant, error) {
	return r.getOne(ctx, ` WHERE u.user_id = $1`, userID)
}

func (r *userRepo) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.UserWithTenant, error) {
	return r.getOne(ctx, ` WHERE u.firebase_uid = $1`, firebaseUID)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.UserWithTenant, error) {
	return r.getOne(ctx, ` WHERE u.email = $1`, strings.ToLower(email))
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, strings.ToLower(email)).Scan(&exists)
	return exists, err
}

func (r *userRepo) ExistsByFirebaseUID(ctx context.Context, firebaseUID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE firebase_uid = $1)`
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, firebaseUID).Scan(&exists)
	return exists, err
}

func (r *userRepo) LinkFirebaseUID(ctx context.Context, id int64, firebaseUID string) error {
	query := `UPDATE users SET firebase_uid = $1, updated_at = NOW() WHERE id = $2 AND firebase_uid IS NULL`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, firebaseUID, id)
	if err != nil {
		if isUniqueViolation(err) {
			return common.Conflict("Firebase account is already linked to another user")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.Conflict("User is already linked to a Firebase account")
	}
	return nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := database.Conn(ctx, r.db).Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// ActivateTenantAdmins activates every OWNER and ADMIN of the tenant.
func (r *userRepo) ActivateTenantAdmins(ctx context.Context, tenantID int64) (int64, error) {
	query := `
		UPDATE users
		SET is_active = true, updated_at = NOW()
		WHERE tenant_id = $1 AND role IN ($2, $3)
	`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, tenantID, models.RoleOwner, models.RoleAdmin)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *userRepo) GetTenantOwner(ctx context.Context, tenantID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.tenant_id = $1 AND u.role = $2 ORDER BY u.id LIMIT 1`
	u, err := scanUser(database.Conn(ctx, r.db).QueryRow(ctx, query, tenantID, models.RoleOwner))
	if isNoRows(err) {
		return nil, common.NotFound("Tenant owner not found")
	}
	return u, err
}

// ListByTenant returns the tenant's users, optionally restricted to roles.
func (r *userRepo) ListByTenant(ctx context.Context, tenantID int64, roles []models.UserRole) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.tenant_id = $1`
	args := []any{tenantID}
	if len(roles) > 0 {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		args = append(args, names)
		query += ` AND u.role = ANY($2)`
	}
	query += ` ORDER BY u.created_at`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepo) Deactivate(ctx context.Context, tenantID int64, userID string) error {
	query := `UPDATE users SET is_active = false, updated_at = NOW() WHERE tenant_id = $1 AND user_id = $2`
	tag, err := database.Conn(ctx, r.db).Exec(ctx, query, tenantID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User %s not found", userID)
	}
	return nil
}
