package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IntegrationService interface {
	List(ctx context.Context, tenantID int64) ([]*models.Integration, error)
	Create(ctx context.Context, tenantID int64, req *CreateIntegrationRequest) (*models.Integration, error)
	Delete(ctx context.Context, tenantID int64, integrationID string) error
	TestConnection(ctx context.Context, tenantID int64, integrationID string) (*models.Integration, error)
	Sync(ctx context.Context, tenantID int64, integrationID string) (*models.SyncResult, error)
}

type CreateIntegrationRequest struct {
	IntegrationType models.IntegrationType `json:"integration_type" validate:"required,oneof=ELD TMS FUEL WEATHER"`
	Vendor          string                 `json:"vendor" validate:"required,max=50"`
	DisplayName     string                 `json:"display_name" validate:"required,max=255"`
	BaseURL         string                 `json:"base_url" validate:"required,url"`
	Credentials     map[string]string      `json:"credentials"`
}

// VendorClientFactory builds a client for one integration.
type VendorClientFactory func(baseURL string, creds map[string]string) VendorClient

type integrationService struct {
	repo        repositories.IntegrationRepository
	driverRepo  repositories.DriverRepository
	vehicleRepo repositories.VehicleRepository
	cipher      *CredentialsCipher
	newClient   VendorClientFactory
	log         *zap.Logger
	now         func() time.Time
}

func NewIntegrationService(repo repositories.IntegrationRepository, driverRepo repositories.DriverRepository,
	vehicleRepo repositories.VehicleRepository, cipher *CredentialsCipher, newClient VendorClientFactory,
	log *zap.Logger) IntegrationService {
	return &integrationService{
		repo:        repo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		cipher:      cipher,
		newClient:   newClient,
		log:         log.Named("integrations"),
		now:         time.Now,
	}
}

func (s *integrationService) List(ctx context.Context, tenantID int64) ([]*models.Integration, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *integrationService) Create(ctx context.Context, tenantID int64, req *CreateIntegrationRequest) (*models.Integration, error) {
	sealed, err := s.cipher.Seal(req.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt credentials: %w", err)
	}
	in := &models.Integration{
		IntegrationID:        uuid.NewString(),
		TenantID:             tenantID,
		IntegrationType:      req.IntegrationType,
		Vendor:               strings.ToLower(strings.TrimSpace(req.Vendor)),
		DisplayName:          strings.TrimSpace(req.DisplayName),
		BaseURL:              strings.TrimRight(strings.TrimSpace(req.BaseURL), "/"),
		EncryptedCredentials: sealed,
		Status:               models.IntegrationStatusConfigured,
	}
	if err := s.repo.Create(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *integrationService) Delete(ctx context.Context, tenantID int64, integrationID string) error {
	return s.repo.Delete(ctx, tenantID, integrationID)
}

func (s *integrationService) client(in *models.Integration) (VendorClient, error) {
	creds, err := s.cipher.Open(in.EncryptedCredentials)
	if err != nil {
		return nil, err
	}
	return s.newClient(in.BaseURL, creds), nil
}

// TestConnection pings the vendor and records the outcome on the integration.
func (s *integrationService) TestConnection(ctx context.Context, tenantID int64, integrationID string) (*models.Integration, error) {
	in, err := s.repo.GetByIntegrationID(ctx, tenantID, integrationID)
	if err != nil {
		return nil, err
	}
	client, err := s.client(in)
	if err != nil {
		return nil, err
	}

	if pingErr := client.Ping(ctx); pingErr != nil {
		s.recordStatus(ctx, in, models.IntegrationStatusError, pingErr, nil)
		return in, nil
	}
	s.recordStatus(ctx, in, models.IntegrationStatusActive, nil, nil)
	return in, nil
}

// Sync pulls drivers and vehicles from an ELD vendor. Synced records carry
// external_source = vendor and become read-only.
func (s *integrationService) Sync(ctx context.Context, tenantID int64, integrationID string) (*models.SyncResult, error) {
	in, err := s.repo.GetByIntegrationID(ctx, tenantID, integrationID)
	if err != nil {
		return nil, err
	}
	if in.IntegrationType != models.IntegrationTypeELD {
		return nil, common.InvalidState("Only ELD integrations can sync drivers and vehicles")
	}
	if in.Status == models.IntegrationStatusDisabled {
		return nil, common.InvalidState("Integration %s is disabled", integrationID)
	}
	client, err := s.client(in)
	if err != nil {
		return nil, err
	}

	result, syncErr := s.pull(ctx, in, client)
	if syncErr != nil {
		s.recordStatus(ctx, in, models.IntegrationStatusError, syncErr, nil)
		return nil, fmt.Errorf("sync with %s failed: %w", in.Vendor, syncErr)
	}
	s.recordStatus(ctx, in, models.IntegrationStatusActive, nil, &result.SyncedAt)

	s.log.Info("integration synced",
		zap.String("integration_id", in.IntegrationID),
		zap.Int("drivers", result.DriversSynced),
		zap.Int("vehicles", result.VehiclesSynced),
	)
	return result, nil
}

func (s *integrationService) pull(ctx context.Context, in *models.Integration, client VendorClient) (*models.SyncResult, error) {
	drivers, err := client.FetchDrivers(ctx)
	if err != nil {
		return nil, err
	}
	vehicles, err := client.FetchVehicles(ctx)
	if err != nil {
		return nil, err
	}

	source := in.Vendor
	result := &models.SyncResult{}
	for _, vd := range drivers {
		if vd.ID == "" {
			continue
		}
		extID := vd.ID
		d := &models.Driver{
			DriverID:       externalRecordID(source, vd.ID),
			TenantID:       in.TenantID,
			Name:           vd.Name,
			LicenseNumber:  common.StringPtr(vd.LicenseNumber),
			LicenseState:   common.StringPtr(vd.LicenseState),
			Phone:          common.StringPtr(vd.Phone),
			Email:          common.StringPtr(strings.ToLower(vd.Email)),
			Status:         vendorDriverStatus(vd.Status),
			ExternalSource: &source,
			ExternalID:     &extID,
		}
		if err := s.driverRepo.UpsertExternal(ctx, d); err != nil {
			return nil, err
		}
		result.DriversSynced++
	}
	for _, vv := range vehicles {
		if vv.ID == "" {
			continue
		}
		extID := vv.ID
		v := &models.Vehicle{
			VehicleID:           externalRecordID(source, vv.ID),
			TenantID:            in.TenantID,
			UnitNumber:          vv.UnitNumber,
			Make:                common.StringPtr(vv.Make),
			Model:               common.StringPtr(vv.Model),
			Year:                vv.Year,
			VIN:                 common.StringPtr(vv.VIN),
			FuelCapacityGallons: vv.FuelCapacityGallons,
			CurrentFuelGallons:  vv.CurrentFuelGallons,
			MPG:                 vv.MPG,
			Status:              vendorVehicleStatus(vv.Status),
			ExternalSource:      &source,
			ExternalID:          &extID,
		}
		if err := s.vehicleRepo.UpsertExternal(ctx, v); err != nil {
			return nil, err
		}
		result.VehiclesSynced++
	}
	result.SyncedAt = s.now()
	return result, nil
}

func (s *integrationService) recordStatus(ctx context.Context, in *models.Integration, status models.IntegrationStatus, cause error, syncedAt *time.Time) {
	var lastError *string
	if cause != nil {
		msg := cause.Error()
		lastError = &msg
	}
	in.Status = status
	in.LastError = lastError
	if syncedAt != nil {
		in.LastSyncAt = syncedAt
	}
	if err := s.repo.UpdateStatus(ctx, in.ID, status, lastError, syncedAt); err != nil {
		s.log.Warn("failed to record integration status", zap.String("integration_id", in.IntegrationID), zap.Error(err))
	}
}

func externalRecordID(vendor, id string) string {
	return vendor + "-" + id
}

func vendorDriverStatus(s string) models.DriverStatus {
	switch st := models.DriverStatus(strings.ToUpper(s)); st {
	case models.DriverStatusAvailable, models.DriverStatusOnDuty, models.DriverStatusDriving,
		models.DriverStatusOffDuty, models.DriverStatusSleeper:
		return st
	}
	return models.DriverStatusOffDuty
}

func vendorVehicleStatus(s string) models.VehicleStatus {
	switch st := models.VehicleStatus(strings.ToUpper(s)); st {
	case models.VehicleStatusAvailable, models.VehicleStatusInUse, models.VehicleStatusMaintenance:
		return st
	}
	return models.VehicleStatusAvailable
}
