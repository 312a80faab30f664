package services

import (
	"context"
	"io"
	"time"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/stretchr/testify/mock"
)

// passThroughTx runs fn directly; repository mocks stand in for the database.
type passThroughTx struct {
	calls int
}

func (t *passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id int64) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByTenantID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetByTenantIDForUpdate(ctx context.Context, tenantID string) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) Approve(ctx context.Context, id int64, approvedBy string, at time.Time) error {
	args := m.Called(ctx, id, approvedBy, at)
	return args.Error(0)
}

func (m *MockTenantRepository) Reject(ctx context.Context, id int64, reason string, at time.Time) error {
	args := m.Called(ctx, id, reason, at)
	return args.Error(0)
}

func (m *MockTenantRepository) List(ctx context.Context, status *models.TenantStatus, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) userWithTenant(args mock.Arguments) (*models.UserWithTenant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWithTenant), args.Error(1)
}

func (m *MockUserRepository) GetByUserID(ctx context.Context, userID string) (*models.UserWithTenant, error) {
	return m.userWithTenant(m.Called(ctx, userID))
}

func (m *MockUserRepository) GetByFirebaseUID(ctx context.Context, firebaseUID string) (*models.UserWithTenant, error) {
	return m.userWithTenant(m.Called(ctx, firebaseUID))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.UserWithTenant, error) {
	return m.userWithTenant(m.Called(ctx, email))
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByFirebaseUID(ctx context.Context, firebaseUID string) (bool, error) {
	args := m.Called(ctx, firebaseUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) LinkFirebaseUID(ctx context.Context, id int64, firebaseUID string) error {
	args := m.Called(ctx, id, firebaseUID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ActivateTenantAdmins(ctx context.Context, tenantID int64) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetTenantOwner(ctx context.Context, tenantID int64) (*models.User, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListByTenant(ctx context.Context, tenantID int64, roles []models.UserRole) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, roles)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, tenantID int64, userID string) error {
	args := m.Called(ctx, tenantID, userID)
	return args.Error(0)
}

type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByTokenID(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, revokedBefore time.Time) (int64, error) {
	args := m.Called(ctx, revokedBefore)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, tenantID, userID, unreadOnly, limit, offset)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) alert(args mock.Arguments) (*models.Alert, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertRepository) List(ctx context.Context, tenantID int64, filters models.AlertFilters) ([]*models.Alert, error) {
	args := m.Called(ctx, tenantID, filters)
	return args.Get(0).([]*models.Alert), args.Error(1)
}

func (m *MockAlertRepository) GetByAlertID(ctx context.Context, tenantID int64, alertID string) (*models.Alert, error) {
	return m.alert(m.Called(ctx, tenantID, alertID))
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) Acknowledge(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error) {
	return m.alert(m.Called(ctx, tenantID, alertID, userID))
}

func (m *MockAlertRepository) Resolve(ctx context.Context, tenantID int64, alertID, userID string) (*models.Alert, error) {
	return m.alert(m.Called(ctx, tenantID, alertID, userID))
}

type MockDriverRepository struct {
	mock.Mock
}

func (m *MockDriverRepository) List(ctx context.Context, tenantID int64, status *models.DriverStatus, limit, offset int) ([]*models.Driver, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	return args.Get(0).([]*models.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByDriverID(ctx context.Context, tenantID int64, driverID string) (*models.Driver, error) {
	args := m.Called(ctx, tenantID, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *models.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *MockDriverRepository) SoftDelete(ctx context.Context, tenantID int64, driverID string) error {
	args := m.Called(ctx, tenantID, driverID)
	return args.Error(0)
}

func (m *MockDriverRepository) UpsertExternal(ctx context.Context, driver *models.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) List(ctx context.Context, tenantID int64, limit, offset int) ([]*models.Vehicle, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByVehicleID(ctx context.Context, tenantID int64, vehicleID string) (*models.Vehicle, error) {
	args := m.Called(ctx, tenantID, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SoftDelete(ctx context.Context, tenantID int64, vehicleID string) error {
	args := m.Called(ctx, tenantID, vehicleID)
	return args.Error(0)
}

func (m *MockVehicleRepository) UpsertExternal(ctx context.Context, vehicle *models.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

type MockLoadRepository struct {
	mock.Mock
}

func (m *MockLoadRepository) List(ctx context.Context, tenantID int64, status *models.LoadStatus, limit, offset int) ([]*models.Load, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	return args.Get(0).([]*models.Load), args.Error(1)
}

func (m *MockLoadRepository) GetByLoadID(ctx context.Context, tenantID int64, loadID string) (*models.Load, error) {
	args := m.Called(ctx, tenantID, loadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Load), args.Error(1)
}

func (m *MockLoadRepository) Create(ctx context.Context, load *models.Load) error {
	args := m.Called(ctx, load)
	return args.Error(0)
}

func (m *MockLoadRepository) UpdateStatus(ctx context.Context, tenantID int64, loadID string, from, to models.LoadStatus) error {
	args := m.Called(ctx, tenantID, loadID, from, to)
	return args.Error(0)
}

func (m *MockLoadRepository) Assign(ctx context.Context, tenantID int64, loadID string, driverID, vehicleID *string) error {
	args := m.Called(ctx, tenantID, loadID, driverID, vehicleID)
	return args.Error(0)
}

func (m *MockLoadRepository) CreateDocument(ctx context.Context, doc *models.LoadDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockLoadRepository) ListDocuments(ctx context.Context, tenantID int64, loadID string) ([]*models.LoadDocument, error) {
	args := m.Called(ctx, tenantID, loadID)
	return args.Get(0).([]*models.LoadDocument), args.Error(1)
}

type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) List(ctx context.Context, tenantID int64, category string) ([]*models.Scenario, error) {
	args := m.Called(ctx, tenantID, category)
	return args.Get(0).([]*models.Scenario), args.Error(1)
}

func (m *MockScenarioRepository) GetByScenarioID(ctx context.Context, tenantID int64, scenarioID string) (*models.Scenario, error) {
	args := m.Called(ctx, tenantID, scenarioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scenario), args.Error(1)
}

func (m *MockScenarioRepository) Create(ctx context.Context, s *models.Scenario) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScenarioRepository) Delete(ctx context.Context, tenantID int64, scenarioID string) error {
	args := m.Called(ctx, tenantID, scenarioID)
	return args.Error(0)
}

type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) List(ctx context.Context, tenantID int64) ([]*models.Integration, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*models.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) GetByIntegrationID(ctx context.Context, tenantID int64, integrationID string) (*models.Integration, error) {
	args := m.Called(ctx, tenantID, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationRepository) Create(ctx context.Context, in *models.Integration) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockIntegrationRepository) Delete(ctx context.Context, tenantID int64, integrationID string) error {
	args := m.Called(ctx, tenantID, integrationID)
	return args.Error(0)
}

func (m *MockIntegrationRepository) UpdateStatus(ctx context.Context, id int64, status models.IntegrationStatus, lastError *string, syncedAt *time.Time) error {
	args := m.Called(ctx, id, status, lastError, syncedAt)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendInvitation(ctx context.Context, in InvitationEmail) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockEmailService) SendRegistrationConfirmation(ctx context.Context, to, firstName, companyName string) error {
	args := m.Called(ctx, to, firstName, companyName)
	return args.Error(0)
}

func (m *MockEmailService) SendTenantApproved(ctx context.Context, to, firstName, companyName, subdomain string) error {
	args := m.Called(ctx, to, firstName, companyName, subdomain)
	return args.Error(0)
}

func (m *MockEmailService) SendTenantRejected(ctx context.Context, to, firstName, companyName, reason string) error {
	args := m.Called(ctx, to, firstName, companyName, reason)
	return args.Error(0)
}

type MockEmailDispatcher struct {
	mock.Mock
}

func (m *MockEmailDispatcher) Dispatch(ctx context.Context, msg EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, tenantID int64, userID string, nType models.NotificationType, title, message string) error {
	args := m.Called(ctx, tenantID, userID, nType, title, message)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyRoles(ctx context.Context, tenantID int64, roles []models.UserRole, nType models.NotificationType, title, message string) error {
	args := m.Called(ctx, tenantID, roles, nType, title, message)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, tenantID int64, userID string, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, tenantID, userID, unreadOnly, limit, offset)
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditLogsService struct {
	mock.Mock
}

func (m *MockAuditLogsService) LogActivity(ctx context.Context, tenantID int64, action string, actorUserID *string, metadata models.JSONB) error {
	args := m.Called(ctx, tenantID, action, actorUserID, metadata)
	return args.Error(0)
}

func (m *MockAuditLogsService) ListAuditLogs(ctx context.Context, tenantID int64, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type MockAlertPublisher struct {
	mock.Mock
}

func (m *MockAlertPublisher) PublishAlert(ctx context.Context, tenantID string, alert *models.Alert) error {
	args := m.Called(ctx, tenantID, alert)
	return args.Error(0)
}

type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) Upload(ctx context.Context, key, contentType string, reader io.Reader, size int64) error {
	args := m.Called(ctx, key, contentType, reader, size)
	return args.Error(0)
}

func (m *MockDocumentStorage) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDocumentStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTokenRevoker struct {
	mock.Mock
	AuthService
}

func (m *MockTokenRevoker) RevokeUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockVendorClient struct {
	mock.Mock
}

func (m *MockVendorClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVendorClient) FetchDrivers(ctx context.Context) ([]VendorDriver, error) {
	args := m.Called(ctx)
	return args.Get(0).([]VendorDriver), args.Error(1)
}

func (m *MockVendorClient) FetchVehicles(ctx context.Context) ([]VendorVehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]VendorVehicle), args.Error(1)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FirebaseToken), args.Error(1)
}

func testIdentity(role models.UserRole) *common.Identity {
	return &common.Identity{
		UserID:     "user-1",
		UserDBID:   1,
		Email:      "owner@acme.test",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Role:       role,
		TenantID:   "tenant-1",
		TenantDBID: 10,
	}
}
