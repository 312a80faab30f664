package services

import (
	"context"
	"strings"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/repositories"
)

type VehicleService interface {
	List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error)
	Get(ctx context.Context, tenantID int64, vehicleID string) (*models.Vehicle, error)
	Create(ctx context.Context, tenantID int64, req *CreateVehicleRequest) (*models.Vehicle, error)
	Update(ctx context.Context, tenantID int64, vehicleID string, req *UpdateVehicleRequest) (*models.Vehicle, error)
	Delete(ctx context.Context, tenantID int64, vehicleID string) error
}

type UpdateVehicleRequest struct {
	UnitNumber          string               `json:"unit_number" validate:"required,max=50"`
	Make                string               `json:"make" validate:"omitempty,max=50"`
	Model               string               `json:"model" validate:"omitempty,max=50"`
	Year                *int32               `json:"year" validate:"omitempty,min=1980,max=2100"`
	VIN                 string               `json:"vin" validate:"omitempty,len=17"`
	FuelCapacityGallons float64              `json:"fuel_capacity_gallons" validate:"required,gt=0"`
	CurrentFuelGallons  *float64             `json:"current_fuel_gallons" validate:"omitempty,gte=0"`
	MPG                 *float64             `json:"mpg" validate:"omitempty,gt=0"`
	Status              models.VehicleStatus `json:"status" validate:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE"`
}

// CreateVehicleRequest carries the caller-chosen vehicle_id, unique per tenant.
type CreateVehicleRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required,max=50"`
	UpdateVehicleRequest
}

type vehicleService struct {
	repo repositories.VehicleRepository
}

func NewVehicleService(repo repositories.VehicleRepository) VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}

func (s *vehicleService) Get(ctx context.Context, tenantID int64, vehicleID string) (*models.Vehicle, error) {
	return s.repo.GetByVehicleID(ctx, tenantID, vehicleID)
}

func (s *vehicleService) Create(ctx context.Context, tenantID int64, req *CreateVehicleRequest) (*models.Vehicle, error) {
	v := &models.Vehicle{
		VehicleID: strings.TrimSpace(req.VehicleID),
		TenantID:  tenantID,
		IsActive:  true,
	}
	if v.VehicleID == "" {
		return nil, common.Validation("vehicle_id is required")
	}
	applyVehicleRequest(v, &req.UpdateVehicleRequest)
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Update(ctx context.Context, tenantID int64, vehicleID string, req *UpdateVehicleRequest) (*models.Vehicle, error) {
	v, err := s.repo.GetByVehicleID(ctx, tenantID, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.ReadOnly() {
		return nil, common.Forbidden("Vehicle %s is managed by %s and cannot be modified", vehicleID, *v.ExternalSource)
	}
	applyVehicleRequest(v, req)
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Delete(ctx context.Context, tenantID int64, vehicleID string) error {
	v, err := s.repo.GetByVehicleID(ctx, tenantID, vehicleID)
	if err != nil {
		return err
	}
	if v.ReadOnly() {
		return common.Forbidden("Vehicle %s is managed by %s and cannot be deleted", vehicleID, *v.ExternalSource)
	}
	return s.repo.SoftDelete(ctx, tenantID, vehicleID)
}

func applyVehicleRequest(v *models.Vehicle, req *UpdateVehicleRequest) {
	v.UnitNumber = strings.TrimSpace(req.UnitNumber)
	v.Make = common.StringPtr(req.Make)
	v.Model = common.StringPtr(req.Model)
	v.Year = req.Year
	v.VIN = common.StringPtr(strings.ToUpper(req.VIN))
	v.FuelCapacityGallons = req.FuelCapacityGallons
	v.CurrentFuelGallons = req.CurrentFuelGallons
	v.MPG = req.MPG
	v.Status = req.Status
	if v.Status == "" {
		v.Status = models.VehicleStatusAvailable
	}
}
