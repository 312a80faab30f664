package jobs

import (
	"context"
	"fmt"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/services"

	"go.uber.org/zap"
)

const (
	defaultLowFuelRatio  = 0.15
	criticalLowFuelRatio = 0.05
	lowFuelAlertType     = "LOW_FUEL"
	fuelScanPageSize     = 200
)

type TenantLister interface {
	List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error)
}

type VehicleLister interface {
	List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error)
}

// FuelAlertMonitor raises LOW_FUEL alerts for vehicles whose reported fuel
// level has dropped under a fraction of tank capacity.
type FuelAlertMonitor struct {
	tenants  TenantLister
	vehicles VehicleLister
	alerts   services.AlertService
	ratio    float64
	log      *zap.Logger
}

type LowFuelVehicle struct {
	VehicleID    string
	UnitNumber   string
	FuelGallons  float64
	CapacityGals float64
	Ratio        float64
}

func NewFuelAlertMonitor(tenants TenantLister, vehicles VehicleLister, alerts services.AlertService, ratio float64, log *zap.Logger) *FuelAlertMonitor {
	if ratio <= 0 || ratio >= 1 {
		ratio = defaultLowFuelRatio
	}
	return &FuelAlertMonitor{
		tenants:  tenants,
		vehicles: vehicles,
		alerts:   alerts,
		ratio:    ratio,
		log:      log.Named("fuel-monitor"),
	}
}

// CheckLowFuel pages through a tenant's vehicles. Vehicles with no fuel
// reading or no tank capacity are skipped.
func (m *FuelAlertMonitor) CheckLowFuel(ctx context.Context, tenantID int64) ([]LowFuelVehicle, error) {
	var low []LowFuelVehicle
	for offset := 0; ; offset += fuelScanPageSize {
		page, err := m.vehicles.List(ctx, tenantID, fuelScanPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list vehicles: %w", err)
		}
		for _, v := range page {
			if v.CurrentFuelGallons == nil || v.FuelCapacityGallons <= 0 || !v.IsActive {
				continue
			}
			ratio := *v.CurrentFuelGallons / v.FuelCapacityGallons
			if ratio < m.ratio {
				low = append(low, LowFuelVehicle{
					VehicleID:    v.VehicleID,
					UnitNumber:   v.UnitNumber,
					FuelGallons:  *v.CurrentFuelGallons,
					CapacityGals: v.FuelCapacityGallons,
					Ratio:        ratio,
				})
			}
		}
		if len(page) < fuelScanPageSize {
			return low, nil
		}
	}
}

// RaiseAlerts creates one alert per low vehicle unless that vehicle already
// has an unresolved LOW_FUEL alert. It returns the number created.
func (m *FuelAlertMonitor) RaiseAlerts(ctx context.Context, tenant *models.Tenant, low []LowFuelVehicle) (int, error) {
	system := &common.Identity{UserID: "system", TenantID: tenant.TenantID, TenantDBID: tenant.ID}

	created := 0
	for _, v := range low {
		open, err := m.hasOpenAlert(ctx, tenant.ID, v.VehicleID)
		if err != nil {
			return created, err
		}
		if open {
			continue
		}

		priority := models.AlertPriorityMedium
		if v.Ratio < criticalLowFuelRatio {
			priority = models.AlertPriorityHigh
		}
		_, err = m.alerts.Create(ctx, system, &services.CreateAlertRequest{
			AlertType: lowFuelAlertType,
			Category:  "fuel",
			Priority:  priority,
			Title:     fmt.Sprintf("Low fuel on unit %s", v.UnitNumber),
			Message: fmt.Sprintf("Unit %s has %.1f of %.1f gallons (%.0f%%).",
				v.UnitNumber, v.FuelGallons, v.CapacityGals, v.Ratio*100),
			VehicleID: v.VehicleID,
		})
		if err != nil {
			return created, fmt.Errorf("failed to create alert for vehicle %s: %w", v.VehicleID, err)
		}
		created++
	}
	return created, nil
}

func (m *FuelAlertMonitor) hasOpenAlert(ctx context.Context, tenantID int64, vehicleID string) (bool, error) {
	existing, err := m.alerts.List(ctx, tenantID, openLowFuelFilter(vehicleID))
	if err != nil {
		return false, fmt.Errorf("failed to list alerts: %w", err)
	}
	return len(existing) > 0, nil
}

func openLowFuelFilter(vehicleID string) models.AlertFilters {
	alertType := lowFuelAlertType
	return models.AlertFilters{VehicleID: &vehicleID, AlertType: &alertType, Unresolved: true, Limit: 1}
}

// ScanAllTenants checks every active tenant. A failing tenant is logged and
// skipped so one bad fleet does not block the rest.
func (m *FuelAlertMonitor) ScanAllTenants(ctx context.Context) (int, error) {
	active := models.TenantStatusActive
	total := 0
	for offset := 0; ; offset += fuelScanPageSize {
		tenants, err := m.tenants.List(ctx, &active, fuelScanPageSize, offset)
		if err != nil {
			return total, fmt.Errorf("failed to list tenants: %w", err)
		}
		for _, t := range tenants {
			low, err := m.CheckLowFuel(ctx, t.ID)
			if err != nil {
				m.log.Error("low fuel check failed", zap.String("tenant_id", t.TenantID), zap.Error(err))
				continue
			}
			n, err := m.RaiseAlerts(ctx, t, low)
			total += n
			if err != nil {
				m.log.Error("failed to raise low fuel alerts", zap.String("tenant_id", t.TenantID), zap.Error(err))
				continue
			}
			if n > 0 {
				m.log.Info("raised low fuel alerts", zap.String("tenant_id", t.TenantID), zap.Int("alerts", n))
			}
		}
		if len(tenants) < fuelScanPageSize {
			return total, nil
		}
	}
}
