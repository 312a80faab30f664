package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"
	"sally/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	reservedSubdomains = map[string]struct{}{
		"admin": {}, "api": {}, "www": {}, "app": {}, "dashboard": {},
		"mail": {}, "support": {}, "help": {}, "docs": {},
	}
	subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,61})[a-z0-9]$`)
)

// NormalizeSubdomain trims and lowercases a subdomain.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func IsReservedSubdomain(s string) bool {
	_, ok := reservedSubdomains[NormalizeSubdomain(s)]
	return ok
}

// ValidateSubdomain checks format and the reserved list.
func ValidateSubdomain(s string) error {
	s = NormalizeSubdomain(s)
	if IsReservedSubdomain(s) {
		return common.Validation("Subdomain '%s' is reserved", s)
	}
	if !subdomainPattern.MatchString(s) {
		return common.Validation("Subdomain must be 3-63 characters of lowercase letters, digits or hyphens, and cannot start or end with a hyphen")
	}
	return nil
}

type TenantService interface {
	Register(ctx context.Context, req *RegisterTenantRequest) (*models.Tenant, *models.User, error)
	Approve(ctx context.Context, tenantID string, approver *common.Identity) (*models.Tenant, error)
	Reject(ctx context.Context, tenantID, reason string, rejector *common.Identity) (*models.Tenant, error)
	GetByTenantID(ctx context.Context, tenantID string) (*models.Tenant, error)
	List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error)
	CheckSubdomainAvailability(ctx context.Context, subdomain string) (bool, error)
	AuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]*models.AuditLog, error)
}

type RegisterTenantRequest struct {
	CompanyName    string `json:"company_name" validate:"required,max=255,singleline"`
	Subdomain      string `json:"subdomain" validate:"required"`
	DOTNumber      string `json:"dot_number" validate:"omitempty,max=20"`
	FleetSize      string `json:"fleet_size" validate:"omitempty,max=20"`
	AdminEmail     string `json:"admin_email" validate:"required,email"`
	AdminFirstName string `json:"admin_first_name" validate:"required,max=100,singleline"`
	AdminLastName  string `json:"admin_last_name" validate:"required,max=100,singleline"`
	FirebaseUID    string `json:"firebase_uid" validate:"required"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
}

type RejectTenantRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type tenantService struct {
	tenantRepo    repositories.TenantRepository
	userRepo      repositories.UserRepository
	auditLogs     AuditLogsService
	notifications NotificationService
	emails        EmailService
	tx            database.TxManager
	log           *zap.Logger
	now           func() time.Time
}

func NewTenantService(tenantRepo repositories.TenantRepository, userRepo repositories.UserRepository,
	auditLogs AuditLogsService, notifications NotificationService, emails EmailService,
	tx database.TxManager, log *zap.Logger) TenantService {
	return &tenantService{
		tenantRepo:    tenantRepo,
		userRepo:      userRepo,
		auditLogs:     auditLogs,
		notifications: notifications,
		emails:        emails,
		tx:            tx,
		log:           log.Named("tenants"),
		now:           time.Now,
	}
}

// Register creates a pending tenant and its inactive OWNER in one transaction.
func (s *tenantService) Register(ctx context.Context, req *RegisterTenantRequest) (*models.Tenant, *models.User, error) {
	subdomain := NormalizeSubdomain(req.Subdomain)
	if err := ValidateSubdomain(subdomain); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, nil, common.Validation("company_name is required")
	}

	taken, err := s.tenantRepo.SubdomainExists(ctx, subdomain)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, common.Conflict("Subdomain '%s' is already taken", subdomain)
	}

	email := strings.ToLower(strings.TrimSpace(req.AdminEmail))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, common.Conflict("A user with email '%s' already exists", email)
	}
	exists, err = s.userRepo.ExistsByFirebaseUID(ctx, req.FirebaseUID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, common.Conflict("This account is already registered")
	}

	tenant := &models.Tenant{
		TenantID:     uuid.NewString(),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Subdomain:    subdomain,
		DOTNumber:    common.StringPtr(req.DOTNumber),
		FleetSize:    common.StringPtr(req.FleetSize),
		ContactEmail: email,
		ContactPhone: common.StringPtr(req.Phone),
		Status:       models.TenantStatusPendingApproval,
		IsActive:     false,
	}
	uid := req.FirebaseUID
	owner := &models.User{
		UserID:      uuid.NewString(),
		Email:       email,
		FirebaseUID: &uid,
		FirstName:   strings.TrimSpace(req.AdminFirstName),
		LastName:    strings.TrimSpace(req.AdminLastName),
		Role:        models.RoleOwner,
		IsActive:    false,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}
		owner.TenantID = tenant.ID
		if err := s.userRepo.Create(ctx, owner); err != nil {
			return err
		}
		return s.auditLogs.LogActivity(ctx, tenant.ID, models.ActionTenantRegistered, &owner.UserID, models.JSONB{
			"subdomain":    tenant.Subdomain,
			"company_name": tenant.CompanyName,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("tenant registered", zap.String("tenant_id", tenant.TenantID), zap.String("subdomain", subdomain))

	if err := s.emails.SendRegistrationConfirmation(ctx, owner.Email, owner.FirstName, tenant.CompanyName); err != nil {
		s.log.Error("failed to enqueue registration email", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
	}

	return tenant, owner, nil
}

// Approve locks the tenant row, activates it and its OWNER/ADMIN users.
func (s *tenantService) Approve(ctx context.Context, tenantID string, approver *common.Identity) (*models.Tenant, error) {
	var tenant *models.Tenant
	var owner *models.User

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		tenant, err = s.tenantRepo.GetByTenantIDForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if tenant.Status != models.TenantStatusPendingApproval {
			return common.InvalidState("Tenant is not pending approval (status: %s)", tenant.Status)
		}

		at := s.now()
		if err := s.tenantRepo.Approve(ctx, tenant.ID, approver.UserID, at); err != nil {
			return err
		}
		tenant.Status = models.TenantStatusActive
		tenant.IsActive = true
		tenant.ApprovedAt = &at
		tenant.ApprovedBy = &approver.UserID

		if _, err := s.userRepo.ActivateTenantAdmins(ctx, tenant.ID); err != nil {
			return err
		}
		owner, err = s.userRepo.GetTenantOwner(ctx, tenant.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		return s.auditLogs.LogActivity(ctx, tenant.ID, models.ActionTenantApproved, &approver.UserID, models.JSONB{
			"approved_by": approver.Email,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant approved", zap.String("tenant_id", tenant.TenantID), zap.String("approved_by", approver.UserID))

	if owner == nil {
		s.log.Warn("approved tenant has no owner", zap.String("tenant_id", tenant.TenantID))
		return tenant, nil
	}

	if err := s.notifications.Notify(ctx, tenant.ID, owner.UserID, models.NotificationTypeTenantApproved,
		"Your account is approved", tenant.CompanyName+" is now active on SALLY."); err != nil {
		s.log.Warn("failed to create approval notification", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
	}
	if err := s.emails.SendTenantApproved(ctx, owner.Email, owner.FirstName, tenant.CompanyName, tenant.Subdomain); err != nil {
		s.log.Error("failed to enqueue approval email", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
	}

	return tenant, nil
}

func (s *tenantService) Reject(ctx context.Context, tenantID, reason string, rejector *common.Identity) (*models.Tenant, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.Validation("reason is required")
	}

	var tenant *models.Tenant
	var owner *models.User

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		tenant, err = s.tenantRepo.GetByTenantIDForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if tenant.Status != models.TenantStatusPendingApproval {
			return common.InvalidState("Tenant is not pending approval (status: %s)", tenant.Status)
		}

		at := s.now()
		if err := s.tenantRepo.Reject(ctx, tenant.ID, reason, at); err != nil {
			return err
		}
		tenant.Status = models.TenantStatusRejected
		tenant.IsActive = false
		tenant.RejectedAt = &at
		tenant.RejectionReason = &reason

		owner, err = s.userRepo.GetTenantOwner(ctx, tenant.ID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		return s.auditLogs.LogActivity(ctx, tenant.ID, models.ActionTenantRejected, &rejector.UserID, models.JSONB{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant rejected", zap.String("tenant_id", tenant.TenantID))

	if owner != nil {
		if err := s.emails.SendTenantRejected(ctx, owner.Email, owner.FirstName, tenant.CompanyName, reason); err != nil {
			s.log.Error("failed to enqueue rejection email", zap.String("tenant_id", tenant.TenantID), zap.Error(err))
		}
	}

	return tenant, nil
}

func (s *tenantService) GetByTenantID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	return s.tenantRepo.GetByTenantID(ctx, tenantID)
}

func (s *tenantService) List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error) {
	return s.tenantRepo.List(ctx, status, limit, offset)
}

// CheckSubdomainAvailability is false for reserved, malformed or taken subdomains.
func (s *tenantService) CheckSubdomainAvailability(ctx context.Context, subdomain string) (bool, error) {
	subdomain = NormalizeSubdomain(subdomain)
	if ValidateSubdomain(subdomain) != nil {
		return false, nil
	}
	taken, err := s.tenantRepo.SubdomainExists(ctx, subdomain)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *tenantService) AuditLogs(ctx context.Context, tenantID string, limit, offset int) ([]*models.AuditLog, error) {
	tenant, err := s.tenantRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.auditLogs.ListAuditLogs(ctx, tenant.ID, limit, offset)
}
