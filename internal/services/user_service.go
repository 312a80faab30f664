package services

import (
	"context"
	"errors"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"
	"sally/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	List(ctx context.Context, tenantID int64) ([]*models.User, error)
	Invite(ctx context.Context, inviter *common.Identity, req *InviteUserRequest) (*models.User, error)
	Deactivate(ctx context.Context, actor *common.Identity, userID string) error
}

type InviteUserRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	FirstName string          `json:"first_name" validate:"required,max=100,singleline"`
	LastName  string          `json:"last_name" validate:"required,max=100,singleline"`
	Role      models.UserRole `json:"role" validate:"required,oneof=ADMIN DISPATCHER DRIVER"`
	DriverID  string          `json:"driver_id"`
}

type userService struct {
	userRepo   repositories.UserRepository
	tenantRepo repositories.TenantRepository
	driverRepo repositories.DriverRepository
	auditLogs  AuditLogsService
	auth       AuthService
	emails     EmailService
	tx         database.TxManager
	log        *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository,
	driverRepo repositories.DriverRepository, auditLogs AuditLogsService, auth AuthService,
	emails EmailService, tx database.TxManager, log *zap.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		driverRepo: driverRepo,
		auditLogs:  auditLogs,
		auth:       auth,
		emails:     emails,
		tx:         tx,
		log:        log.Named("users"),
	}
}

func (s *userService) List(ctx context.Context, tenantID int64) ([]*models.User, error) {
	return s.userRepo.ListByTenant(ctx, tenantID, nil)
}

// Invite creates an active user without a Firebase account. The account is
// linked by email on the user's first login.
func (s *userService) Invite(ctx context.Context, inviter *common.Identity, req *InviteUserRequest) (*models.User, error) {
	switch req.Role {
	case models.RoleAdmin, models.RoleDispatcher, models.RoleDriver:
	default:
		return nil, common.Validation("role must be one of ADMIN, DISPATCHER, DRIVER")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.Conflict("A user with email '%s' already exists", email)
	}

	driverID := common.StringPtr(req.DriverID)
	if req.Role == models.RoleDriver && driverID != nil {
		if _, err := s.driverRepo.GetByDriverID(ctx, inviter.TenantDBID, *driverID); err != nil {
			return nil, err
		}
	}

	tenant, err := s.tenantRepo.GetByID(ctx, inviter.TenantDBID)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:    uuid.NewString(),
		TenantID:  inviter.TenantDBID,
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      req.Role,
		DriverID:  driverID,
		IsActive:  true,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		return s.auditLogs.LogActivity(ctx, inviter.TenantDBID, models.ActionUserInvited, &inviter.UserID, models.JSONB{
			"email": email,
			"role":  string(req.Role),
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.emails.SendInvitation(ctx, InvitationEmail{
		To:          email,
		FirstName:   user.FirstName,
		InviterName: strings.TrimSpace(inviter.FirstName + " " + inviter.LastName),
		CompanyName: tenant.CompanyName,
		Role:        string(user.Role),
		Subdomain:   tenant.Subdomain,
	}); err != nil {
		s.log.Error("failed to enqueue invitation email", zap.String("user_id", user.UserID), zap.Error(err))
	}

	return user, nil
}

// Deactivate disables a user of the actor's tenant and revokes their refresh tokens.
func (s *userService) Deactivate(ctx context.Context, actor *common.Identity, userID string) error {
	if userID == actor.UserID {
		return common.Validation("You cannot deactivate your own account")
	}
	target, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if target.TenantID != actor.TenantDBID {
		return common.NotFound("User not found")
	}
	if target.Role == models.RoleOwner {
		return common.Forbidden("The tenant owner cannot be deactivated")
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Deactivate(ctx, actor.TenantDBID, userID); err != nil {
			return err
		}
		return s.auditLogs.LogActivity(ctx, actor.TenantDBID, models.ActionUserDeactivated, &actor.UserID, models.JSONB{
			"user_id": userID,
		})
	})
	if err != nil {
		return err
	}

	if err := s.auth.RevokeUserTokens(ctx, userID); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	return nil
}
