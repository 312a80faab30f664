package services

import (
	"context"
	"errors"
	"testing"

	"sally/internal/common"
	"sally/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type AlertServiceTestSuite struct {
	suite.Suite
	repo          *MockAlertRepository
	publisher     *MockAlertPublisher
	notifications *MockNotificationService
	service       AlertService
	ctx           context.Context
	identity      *common.Identity
}

func (suite *AlertServiceTestSuite) SetupTest() {
	suite.repo = &MockAlertRepository{}
	suite.publisher = &MockAlertPublisher{}
	suite.notifications = &MockNotificationService{}
	suite.service = NewAlertService(suite.repo, suite.publisher, suite.notifications, zap.NewNop())
	suite.ctx = context.Background()
	suite.identity = testIdentity(models.RoleDispatcher)
}

func (suite *AlertServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.publisher.AssertExpectations(suite.T())
	suite.notifications.AssertExpectations(suite.T())
}

func TestAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AlertServiceTestSuite))
}

func (suite *AlertServiceTestSuite) createRequest() *CreateAlertRequest {
	return &CreateAlertRequest{
		AlertType: "HOS_VIOLATION",
		Category:  "compliance",
		Priority:  models.AlertPriorityHigh,
		Title:     "  Driver near HOS limit ",
		Message:   "Driver D-1 has 30 minutes of drive time left",
		DriverID:  "driver-1",
	}
}

func (suite *AlertServiceTestSuite) TestCreate_PublishesAndNotifies() {
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(a *models.Alert) bool {
		return a.TenantID == 10 && a.Status == models.AlertStatusActive &&
			a.Title == "Driver near HOS limit" && a.VehicleID == nil && *a.DriverID == "driver-1"
	})).Return(nil)
	suite.publisher.On("PublishAlert", suite.ctx, "tenant-1", mock.AnythingOfType("*models.Alert")).Return(nil)
	suite.notifications.On("NotifyRoles", suite.ctx, int64(10), alertRecipients,
		models.NotificationTypeAlert, "Driver near HOS limit", mock.Anything).Return(nil)

	alert, err := suite.service.Create(suite.ctx, suite.identity, suite.createRequest())

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), alert.AlertID)
}

func (suite *AlertServiceTestSuite) TestCreate_PublishFailureIsNotFatal() {
	suite.repo.On("Create", suite.ctx, mock.AnythingOfType("*models.Alert")).Return(nil)
	suite.publisher.On("PublishAlert", suite.ctx, "tenant-1", mock.AnythingOfType("*models.Alert")).
		Return(errors.New("redis down"))
	suite.notifications.On("NotifyRoles", suite.ctx, int64(10), alertRecipients,
		models.NotificationTypeAlert, mock.Anything, mock.Anything).Return(errors.New("db down"))

	alert, err := suite.service.Create(suite.ctx, suite.identity, suite.createRequest())

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), alert)
}

func (suite *AlertServiceTestSuite) TestCreate_StoreFailureSkipsFanOut() {
	suite.repo.On("Create", suite.ctx, mock.AnythingOfType("*models.Alert")).Return(errors.New("db down"))

	_, err := suite.service.Create(suite.ctx, suite.identity, suite.createRequest())

	assert.Error(suite.T(), err)
}

func (suite *AlertServiceTestSuite) TestAcknowledge_Success() {
	acked := &models.Alert{AlertID: "alert-1", Status: models.AlertStatusAcknowledged}
	suite.repo.On("GetByAlertID", suite.ctx, int64(10), "alert-1").Return(&models.Alert{AlertID: "alert-1"}, nil)
	suite.repo.On("Acknowledge", suite.ctx, int64(10), "alert-1", "user-1").Return(acked, nil)

	got, err := suite.service.Acknowledge(suite.ctx, suite.identity, "alert-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.AlertStatusAcknowledged, got.Status)
}

func (suite *AlertServiceTestSuite) TestAcknowledge_UnknownAlert() {
	suite.repo.On("GetByAlertID", suite.ctx, int64(10), "missing").Return(nil, common.NotFound("alert not found"))

	_, err := suite.service.Acknowledge(suite.ctx, suite.identity, "missing")

	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *AlertServiceTestSuite) TestResolve_WrongState() {
	suite.repo.On("GetByAlertID", suite.ctx, int64(10), "alert-1").Return(&models.Alert{AlertID: "alert-1"}, nil)
	suite.repo.On("Resolve", suite.ctx, int64(10), "alert-1", "user-1").
		Return(nil, common.InvalidState("alert is already resolved"))

	_, err := suite.service.Resolve(suite.ctx, suite.identity, "alert-1")

	assert.ErrorIs(suite.T(), err, common.ErrInvalidState)
}

type NotificationServiceTestSuite struct {
	suite.Suite
	repo     *MockNotificationRepository
	userRepo *MockUserRepository
	service  NotificationService
	ctx      context.Context
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.repo = &MockNotificationRepository{}
	suite.userRepo = &MockUserRepository{}
	suite.service = NewNotificationService(suite.repo, suite.userRepo, zap.NewNop())
	suite.ctx = context.Background()
}

func (suite *NotificationServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.userRepo.AssertExpectations(suite.T())
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

func (suite *NotificationServiceTestSuite) TestNotifyRoles_SkipsInactiveAndContinuesOnError() {
	roles := []models.UserRole{models.RoleOwner, models.RoleDispatcher}
	users := []*models.User{
		{UserID: "u-1", IsActive: true},
		{UserID: "u-2", IsActive: false},
		{UserID: "u-3", IsActive: true},
	}
	suite.userRepo.On("ListByTenant", suite.ctx, int64(10), roles).Return(users, nil)
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(n *models.Notification) bool { return n.UserID == "u-1" })).
		Return(errors.New("insert failed"))
	suite.repo.On("Create", suite.ctx, mock.MatchedBy(func(n *models.Notification) bool { return n.UserID == "u-3" })).
		Return(nil)

	err := suite.service.NotifyRoles(suite.ctx, 10, roles, models.NotificationTypeSystem, "Heads up", "Maintenance tonight")

	assert.EqualError(suite.T(), err, "insert failed")
	suite.repo.AssertNumberOfCalls(suite.T(), "Create", 2)
}

func (suite *NotificationServiceTestSuite) TestMarkAllRead() {
	suite.repo.On("MarkAllRead", suite.ctx, "u-1").Return(int64(7), nil)

	n, err := suite.service.MarkAllRead(suite.ctx, "u-1")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), n)
}
