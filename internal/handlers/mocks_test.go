package handlers

import (
	"context"
	"errors"
	"time"

	"sally/internal/common"
	"sally/internal/models"
	"sally/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// newTestEcho wires the validator and error handler used in production and,
// when identity is non-nil, injects it the way the auth middleware would.
func newTestEcho(identity *common.Identity) *echo.Echo {
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler(zap.NewNop())
	if identity != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				ctx := common.WithIdentity(c.Request().Context(), identity)
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}
		})
	}
	return e
}

func dispatcherIdentity() *common.Identity {
	return &common.Identity{
		UserID:     "user-1",
		UserDBID:   1,
		Email:      "dispatch@acme.test",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Role:       models.RoleDispatcher,
		TenantID:   "tenant-1",
		TenantDBID: 10,
	}
}

type MockAuthService struct {
	mock.Mock
	services.AuthService
}

func (m *MockAuthService) Login(ctx context.Context, firebaseToken string, meta services.SessionMeta) (*models.TokenPair, *common.Identity, error) {
	args := m.Called(ctx, firebaseToken, meta)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.TokenPair), args.Get(1).(*common.Identity), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, rawToken string, meta services.SessionMeta) (*models.TokenPair, *common.Identity, error) {
	args := m.Called(ctx, rawToken, meta)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.TokenPair), args.Get(1).(*common.Identity), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) error {
	args := m.Called(ctx, rawToken)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID string) (*models.UserWithTenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserWithTenant), args.Error(1)
}

type MockAlertService struct {
	mock.Mock
	services.AlertService
}

func (m *MockAlertService) List(ctx context.Context, tenantID int64, filters models.AlertFilters) ([]*models.Alert, error) {
	args := m.Called(ctx, tenantID, filters)
	return args.Get(0).([]*models.Alert), args.Error(1)
}

func (m *MockAlertService) Acknowledge(ctx context.Context, identity *common.Identity, alertID string) (*models.Alert, error) {
	args := m.Called(ctx, identity, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

type MockDriverService struct {
	mock.Mock
	services.DriverService
}

func (m *MockDriverService) Export(ctx context.Context, tenantID int64) ([]byte, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockLoadService struct {
	mock.Mock
	services.LoadService
}

func (m *MockLoadService) UploadDocument(ctx context.Context, tenantID int64, loadID string, upload services.DocumentUpload) (*models.LoadDocument, error) {
	args := m.Called(ctx, tenantID, loadID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoadDocument), args.Error(1)
}

// chanSubscriber hands out a single pre-made event channel.
type chanSubscriber struct {
	events   chan []byte
	tenantID string
}

func (s *chanSubscriber) Subscribe(_ context.Context, tenantID string) (<-chan []byte, error) {
	s.tenantID = tenantID
	return s.events, nil
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

var errPingFailed = errors.New("connection refused")

type stubJobs struct {
	status map[string]time.Time
	ran    []string
}

func (s *stubJobs) GetJobStatus() map[string]time.Time { return s.status }

func (s *stubJobs) RunNow(name string) error {
	s.ran = append(s.ran, name)
	return nil
}
