package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type VehicleRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    VehicleRepository
	context context.Context
}

func (suite *VehicleRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewVehicleRepo(mock)
	suite.context = context.Background()
}

func (suite *VehicleRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestVehicleRepoTestSuite(t *testing.T) {
	suite.Run(t, new(VehicleRepoTestSuite))
}

func (suite *VehicleRepoTestSuite) TestGetByVehicleID_ExternalSource() {
	now := time.Now()
	source := "samsara"
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM vehicles WHERE tenant_id = $1 AND vehicle_id = $2")).
		WithArgs(int64(7), "TRK-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "vehicle_id", "tenant_id", "unit_number", "make", "model",
			"year", "vin", "fuel_capacity_gallons", "current_fuel_gallons", "mpg", "status", "external_source",
			"external_id", "last_synced_at", "is_active", "created_at", "updated_at"}).
			AddRow(int64(1), "TRK-1", int64(7), "101", nil, nil, nil, nil, 200.0, nil, nil,
				models.VehicleStatusAvailable, &source, nil, nil, true, now, now))

	v, err := suite.repo.GetByVehicleID(suite.context, 7, "TRK-1")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), v.ReadOnly())
}

func (suite *VehicleRepoTestSuite) TestCreate_DuplicateVehicleID() {
	v := &models.Vehicle{VehicleID: "TRK-1", TenantID: 7, UnitNumber: "101", FuelCapacityGallons: 200,
		Status: models.VehicleStatusAvailable}

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO vehicles")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := suite.repo.Create(suite.context, v)
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *VehicleRepoTestSuite) TestSoftDelete_SkipsExternal() {
	suite.mock.ExpectExec(regexp.QuoteMeta("AND external_source IS NULL")).
		WithArgs(int64(7), "TRK-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.SoftDelete(suite.context, 7, "TRK-1"))
}

func (suite *VehicleRepoTestSuite) TestUpsertExternal_WritesFuelReading() {
	source, external := "samsara", "v1"
	fuel, mpg := 22.5, 6.8
	v := &models.Vehicle{VehicleID: "samsara-v1", TenantID: 7, UnitNumber: "101", FuelCapacityGallons: 150,
		CurrentFuelGallons: &fuel, MPG: &mpg, Status: models.VehicleStatusAvailable,
		ExternalSource: &source, ExternalID: &external}

	suite.mock.ExpectExec(regexp.QuoteMeta("current_fuel_gallons = EXCLUDED.current_fuel_gallons, mpg = EXCLUDED.mpg")).
		WithArgs(v.VehicleID, v.TenantID, v.UnitNumber, v.Make, v.Model, v.Year, v.VIN, v.FuelCapacityGallons,
			v.CurrentFuelGallons, v.MPG, v.Status, v.ExternalSource, v.ExternalID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.UpsertExternal(suite.context, v))
}
