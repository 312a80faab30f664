package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var driverColumnNames = []string{"id", "driver_id", "tenant_id", "name", "license_number", "license_state",
	"phone", "email", "status", "external_source", "external_id", "last_synced_at", "is_active",
	"created_at", "updated_at"}

type DriverRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    DriverRepository
	context context.Context
}

func (suite *DriverRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewDriverRepo(mock)
	suite.context = context.Background()
}

func (suite *DriverRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestDriverRepoTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepoTestSuite))
}

func (suite *DriverRepoTestSuite) TestList_WithStatusFilter() {
	now := time.Now()
	status := models.DriverStatusDriving
	suite.mock.ExpectQuery(regexp.QuoteMeta("AND status = $2 ORDER BY name LIMIT $3 OFFSET $4")).
		WithArgs(int64(7), status, 50, 0).
		WillReturnRows(pgxmock.NewRows(driverColumnNames).
			AddRow(int64(1), "DRV-1", int64(7), "Jane Roe", nil, nil, nil, nil, status, nil, nil, nil, true, now, now).
			AddRow(int64(2), "DRV-2", int64(7), "John Doe", nil, nil, nil, nil, status, nil, nil, nil, true, now, now))

	drivers, err := suite.repo.List(suite.context, 7, &status, 50, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), drivers, 2)
	assert.Equal(suite.T(), "DRV-2", drivers[1].DriverID)
}

func (suite *DriverRepoTestSuite) TestList_Empty() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name LIMIT $2 OFFSET $3")).
		WithArgs(int64(7), 20, 40).
		WillReturnRows(pgxmock.NewRows(driverColumnNames))

	drivers, err := suite.repo.List(suite.context, 7, nil, 20, 40)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), drivers)
	assert.Empty(suite.T(), drivers)
}

func (suite *DriverRepoTestSuite) TestGetByDriverID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM drivers WHERE tenant_id = $1 AND driver_id = $2")).
		WithArgs(int64(7), "DRV-9").
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByDriverID(suite.context, 7, "DRV-9")

	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *DriverRepoTestSuite) TestUpdate_SkipsExternal() {
	d := &models.Driver{DriverID: "DRV-1", TenantID: 7, Name: "Jane", Status: models.DriverStatusAvailable}
	suite.mock.ExpectQuery(regexp.QuoteMeta("AND external_source IS NULL")).
		WithArgs(d.Name, d.LicenseNumber, d.LicenseState, d.Phone, d.Email, d.Status, int64(7), "DRV-1").
		WillReturnError(pgx.ErrNoRows)

	err := suite.repo.Update(suite.context, d)

	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *DriverRepoTestSuite) TestSoftDelete_NotFound() {
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE drivers SET is_active = false")).
		WithArgs(int64(7), "DRV-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SoftDelete(suite.context, 7, "DRV-1")

	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *DriverRepoTestSuite) TestUpsertExternal() {
	source, external := "samsara", "d1"
	d := &models.Driver{DriverID: "samsara-d1", TenantID: 7, Name: "Jane", Status: models.DriverStatusOnDuty,
		ExternalSource: &source, ExternalID: &external}
	suite.mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (tenant_id, driver_id) DO UPDATE")).
		WithArgs(d.DriverID, d.TenantID, d.Name, d.LicenseNumber, d.LicenseState, d.Phone, d.Email, d.Status,
			d.ExternalSource, d.ExternalID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.UpsertExternal(suite.context, d))
}
