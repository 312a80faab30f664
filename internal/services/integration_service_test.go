package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type IntegrationServiceTestSuite struct {
	suite.Suite
	repo        *MockIntegrationRepository
	driverRepo  *MockDriverRepository
	vehicleRepo *MockVehicleRepository
	client      *MockVendorClient
	cipher      *CredentialsCipher
	svc         *integrationService
	ctx         context.Context
	now         time.Time
	gotCreds    map[string]string
}

func (suite *IntegrationServiceTestSuite) SetupTest() {
	suite.repo = &MockIntegrationRepository{}
	suite.driverRepo = &MockDriverRepository{}
	suite.vehicleRepo = &MockVehicleRepository{}
	suite.client = &MockVendorClient{}
	suite.ctx = context.Background()
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cipher, err := NewCredentialsCipher("integration-secret")
	suite.Require().NoError(err)
	suite.cipher = cipher

	svc := NewIntegrationService(suite.repo, suite.driverRepo, suite.vehicleRepo, cipher,
		func(baseURL string, creds map[string]string) VendorClient {
			suite.gotCreds = creds
			return suite.client
		}, zap.NewNop())
	suite.svc = svc.(*integrationService)
	suite.svc.now = func() time.Time { return suite.now }
}

func (suite *IntegrationServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.driverRepo.AssertExpectations(suite.T())
	suite.vehicleRepo.AssertExpectations(suite.T())
	suite.client.AssertExpectations(suite.T())
}

func TestIntegrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationServiceTestSuite))
}

func (suite *IntegrationServiceTestSuite) eld() *models.Integration {
	sealed, err := suite.cipher.Seal(map[string]string{"api_key": "k-123"})
	suite.Require().NoError(err)
	return &models.Integration{
		ID:                   7,
		IntegrationID:        "int-1",
		TenantID:             10,
		IntegrationType:      models.IntegrationTypeELD,
		Vendor:               "samsara",
		BaseURL:              "https://api.samsara.test",
		EncryptedCredentials: sealed,
		Status:               models.IntegrationStatusConfigured,
	}
}

func (suite *IntegrationServiceTestSuite) TestCreate_EncryptsCredentials() {
	var stored *models.Integration
	suite.repo.On("Create", suite.ctx, mock.AnythingOfType("*models.Integration")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.Integration) }).
		Return(nil)

	in, err := suite.svc.Create(suite.ctx, 10, &CreateIntegrationRequest{
		IntegrationType: models.IntegrationTypeELD,
		Vendor:          " Samsara ",
		DisplayName:     "Samsara ELD",
		BaseURL:         "https://api.samsara.test/",
		Credentials:     map[string]string{"api_key": "k-123"},
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "samsara", in.Vendor)
	assert.Equal(suite.T(), "https://api.samsara.test", in.BaseURL)
	assert.Equal(suite.T(), models.IntegrationStatusConfigured, in.Status)
	assert.NotContains(suite.T(), string(stored.EncryptedCredentials), "k-123")

	creds, err := suite.cipher.Open(stored.EncryptedCredentials)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "k-123", creds["api_key"])
}

func (suite *IntegrationServiceTestSuite) TestTestConnection_RecordsFailure() {
	in := suite.eld()
	suite.repo.On("GetByIntegrationID", suite.ctx, int64(10), "int-1").Return(in, nil)
	suite.client.On("Ping", suite.ctx).Return(errors.New("401 unauthorized"))
	suite.repo.On("UpdateStatus", suite.ctx, int64(7), models.IntegrationStatusError,
		mock.MatchedBy(func(msg *string) bool { return msg != nil && *msg == "401 unauthorized" }),
		(*time.Time)(nil)).Return(nil)

	got, err := suite.svc.TestConnection(suite.ctx, 10, "int-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.IntegrationStatusError, got.Status)
	assert.Equal(suite.T(), "k-123", suite.gotCreds["api_key"])
}

func (suite *IntegrationServiceTestSuite) TestSync_UpsertsExternalRecords() {
	in := suite.eld()
	suite.repo.On("GetByIntegrationID", suite.ctx, int64(10), "int-1").Return(in, nil)
	suite.client.On("FetchDrivers", suite.ctx).Return([]VendorDriver{
		{ID: "d1", Name: "Jane Roe", Status: "driving", Email: "JANE@ACME.TEST"},
		{ID: "", Name: "skipped"},
	}, nil)
	suite.client.On("FetchVehicles", suite.ctx).Return([]VendorVehicle{
		{ID: "v1", UnitNumber: "101", FuelCapacityGallons: 150, Status: "unknown"},
	}, nil)
	suite.driverRepo.On("UpsertExternal", suite.ctx, mock.MatchedBy(func(d *models.Driver) bool {
		return d.DriverID == "samsara-d1" && d.Status == models.DriverStatusDriving &&
			*d.ExternalSource == "samsara" && *d.ExternalID == "d1" && *d.Email == "jane@acme.test"
	})).Return(nil)
	suite.vehicleRepo.On("UpsertExternal", suite.ctx, mock.MatchedBy(func(v *models.Vehicle) bool {
		return v.VehicleID == "samsara-v1" && v.Status == models.VehicleStatusAvailable
	})).Return(nil)
	suite.repo.On("UpdateStatus", suite.ctx, int64(7), models.IntegrationStatusActive, (*string)(nil), &suite.now).Return(nil)

	result, err := suite.svc.Sync(suite.ctx, 10, "int-1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.DriversSynced)
	assert.Equal(suite.T(), 1, result.VehiclesSynced)
	assert.Equal(suite.T(), suite.now, result.SyncedAt)
}

func (suite *IntegrationServiceTestSuite) TestSync_VendorFailureMarksError() {
	in := suite.eld()
	suite.repo.On("GetByIntegrationID", suite.ctx, int64(10), "int-1").Return(in, nil)
	suite.client.On("FetchDrivers", suite.ctx).Return([]VendorDriver(nil), errors.New("timeout"))
	suite.repo.On("UpdateStatus", suite.ctx, int64(7), models.IntegrationStatusError, mock.Anything, (*time.Time)(nil)).Return(nil)

	_, err := suite.svc.Sync(suite.ctx, 10, "int-1")

	assert.ErrorContains(suite.T(), err, "sync with samsara failed")
}

func (suite *IntegrationServiceTestSuite) TestSync_OnlyELD() {
	in := suite.eld()
	in.IntegrationType = models.IntegrationTypeFuel
	suite.repo.On("GetByIntegrationID", suite.ctx, int64(10), "int-1").Return(in, nil)

	_, err := suite.svc.Sync(suite.ctx, 10, "int-1")

	assert.ErrorIs(suite.T(), err, common.ErrInvalidState)
}

func TestCredentialsCipher(t *testing.T) {
	c, err := NewCredentialsCipher("secret-a")
	require.NoError(t, err)

	sealed, err := c.Seal(map[string]string{"api_key": "abc"})
	require.NoError(t, err)

	again, err := c.Seal(map[string]string{"api_key": "abc"})
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")

	creds, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc", creds["api_key"])

	other, err := NewCredentialsCipher("secret-b")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)

	_, err = c.Open([]byte("short"))
	assert.Error(t, err)

	_, err = NewCredentialsCipher("")
	assert.Error(t, err)
}

func TestVendorClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k-123" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad key"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/drivers":
			_, _ = w.Write([]byte(`{"drivers":[{"id":"d1","name":"Jane Roe","status":"ON_DUTY"}]}`))
		case "/vehicles":
			_, _ = w.Write([]byte(`{"vehicles":[{"id":"v1","unit_number":"101","year":2022,"fuel_capacity_gallons":150}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	client := NewVendorClient(srv.URL, map[string]string{"api_key": "k-123"}, time.Second)

	require.NoError(t, client.Ping(ctx))

	drivers, err := client.FetchDrivers(ctx)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Jane Roe", drivers[0].Name)

	vehicles, err := client.FetchVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	require.NotNil(t, vehicles[0].Year)
	assert.Equal(t, int32(2022), *vehicles[0].Year)

	unauthorized := NewVendorClient(srv.URL, map[string]string{"api_key": "wrong"}, time.Second)
	err = unauthorized.Ping(ctx)
	assert.ErrorContains(t, err, "status 401: bad key")
}
