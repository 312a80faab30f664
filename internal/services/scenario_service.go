package services

import (
	"context"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"

	"github.com/google/uuid"
)

type ScenarioService interface {
	List(ctx context.Context, tenantID int64, category string) ([]*models.Scenario, error)
	Get(ctx context.Context, tenantID int64, scenarioID string) (*models.Scenario, error)
	Create(ctx context.Context, identity *common.Identity, req *CreateScenarioRequest) (*models.Scenario, error)
	Delete(ctx context.Context, tenantID int64, scenarioID string) error
}

type CreateScenarioRequest struct {
	Name        string       `json:"name" validate:"required,max=255"`
	Description string       `json:"description"`
	Category    string       `json:"category" validate:"required,max=50"`
	DriverID    string       `json:"driver_id"`
	VehicleID   string       `json:"vehicle_id"`
	Parameters  models.JSONB `json:"parameters"`
}

type scenarioService struct {
	repo repositories.ScenarioRepository
}

func NewScenarioService(repo repositories.ScenarioRepository) ScenarioService {
	return &scenarioService{repo: repo}
}

func (s *scenarioService) List(ctx context.Context, tenantID int64, category string) ([]*models.Scenario, error) {
	return s.repo.List(ctx, tenantID, strings.TrimSpace(category))
}

func (s *scenarioService) Get(ctx context.Context, tenantID int64, scenarioID string) (*models.Scenario, error) {
	return s.repo.GetByScenarioID(ctx, tenantID, scenarioID)
}

func (s *scenarioService) Create(ctx context.Context, identity *common.Identity, req *CreateScenarioRequest) (*models.Scenario, error) {
	params := req.Parameters
	if params == nil {
		params = models.JSONB{}
	}
	sc := &models.Scenario{
		ScenarioID:  uuid.NewString(),
		TenantID:    identity.TenantDBID,
		Name:        strings.TrimSpace(req.Name),
		Description: common.StringPtr(req.Description),
		Category:    strings.TrimSpace(req.Category),
		DriverID:    common.StringPtr(req.DriverID),
		VehicleID:   common.StringPtr(req.VehicleID),
		Parameters:  params,
		CreatedBy:   identity.UserID,
	}
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *scenarioService) Delete(ctx context.Context, tenantID int64, scenarioID string) error {
	return s.repo.Delete(ctx, tenantID, scenarioID)
}
