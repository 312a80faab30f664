package services

import (
	"context"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
)

type DriverService interface {
	List(ctx context.Context, tenantID int64, status *models.DriverStatus, limit, offset int) ([]*models.Driver, error)
	Get(ctx context.Context, tenantID int64, driverID string) (*models.Driver, error)
	Create(ctx context.Context, tenantID int64, req *DriverRequest) (*models.Driver, error)
	Update(ctx context.Context, tenantID int64, driverID string, req *DriverRequest) (*models.Driver, error)
	Delete(ctx context.Context, tenantID int64, driverID string) error
	Export(ctx context.Context, tenantID int64) ([]byte, error)
}

type DriverRequest struct {
	Name          string              `json:"name" validate:"required,max=255"`
	LicenseNumber string              `json:"license_number" validate:"omitempty,max=50"`
	LicenseState  string              `json:"license_state" validate:"omitempty,len=2"`
	Phone         string              `json:"phone" validate:"omitempty,max=30"`
	Email         string              `json:"email" validate:"omitempty,email"`
	Status        models.DriverStatus `json:"status" validate:"omitempty,oneof=AVAILABLE ON_DUTY DRIVING OFF_DUTY SLEEPER"`
}

// exportPageSize bounds each read while building an export.
const exportPageSize = 200

type driverService struct {
	repo repositories.DriverRepository
}

func NewDriverService(repo repositories.DriverRepository) DriverService {
	return &driverService{repo: repo}
}

func (s *driverService) List(ctx context.Context, tenantID int64, status *models.DriverStatus, limit, offset int) ([]*models.Driver, error) {
	return s.repo.List(ctx, tenantID, status, limit, offset)
}

func (s *driverService) Get(ctx context.Context, tenantID int64, driverID string) (*models.Driver, error) {
	return s.repo.GetByDriverID(ctx, tenantID, driverID)
}

func (s *driverService) Create(ctx context.Context, tenantID int64, req *DriverRequest) (*models.Driver, error) {
	d := &models.Driver{
		DriverID: uuid.NewString(),
		TenantID: tenantID,
		IsActive: true,
	}
	applyDriverRequest(d, req)
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update refuses records owned by an integration sync.
func (s *driverService) Update(ctx context.Context, tenantID int64, driverID string, req *DriverRequest) (*models.Driver, error) {
	d, err := s.repo.GetByDriverID(ctx, tenantID, driverID)
	if err != nil {
		return nil, err
	}
	if d.ReadOnly() {
		return nil, common.Forbidden("Driver %s is managed by %s and cannot be modified", driverID, *d.ExternalSource)
	}
	applyDriverRequest(d, req)
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) Delete(ctx context.Context, tenantID int64, driverID string) error {
	d, err := s.repo.GetByDriverID(ctx, tenantID, driverID)
	if err != nil {
		return err
	}
	if d.ReadOnly() {
		return common.Forbidden("Driver %s is managed by %s and cannot be deleted", driverID, *d.ExternalSource)
	}
	return s.repo.SoftDelete(ctx, tenantID, driverID)
}

// Export renders every driver of the tenant as an XLSX workbook.
func (s *driverService) Export(ctx context.Context, tenantID int64) ([]byte, error) {
	var all []*models.Driver
	for offset := 0; ; offset += exportPageSize {
		page, err := s.repo.List(ctx, tenantID, nil, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}
	return buildDriverWorkbook(all)
}

func applyDriverRequest(d *models.Driver, req *DriverRequest) {
	d.Name = strings.TrimSpace(req.Name)
	d.LicenseNumber = common.StringPtr(req.LicenseNumber)
	d.LicenseState = common.StringPtr(strings.ToUpper(req.LicenseState))
	d.Phone = common.StringPtr(req.Phone)
	d.Email = common.StringPtr(strings.ToLower(req.Email))
	d.Status = req.Status
	if d.Status == "" {
		d.Status = models.DriverStatusAvailable
	}
}
