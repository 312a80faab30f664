package background

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTokenCleaner struct {
	mock.Mock
}

func (m *MockTokenCleaner) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewJobScheduler_RegistersCleanup(t *testing.T) {
	js, err := NewJobScheduler(&MockTokenCleaner{}, nil, 0, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.Contains(t, js.jobJobs, "refresh-token-cleanup")
	assert.Len(t, js.jobJobs, 1)
}

type MockFuelChecker struct {
	mock.Mock
}

func (m *MockFuelChecker) ScanAllTenants(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewJobScheduler_RegistersFuelScan(t *testing.T) {
	js, err := NewJobScheduler(&MockTokenCleaner{}, &MockFuelChecker{}, time.Minute, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.Len(t, js.jobJobs, 2)
	assert.Contains(t, js.jobJobs, "low-fuel-scan")
	assert.Equal(t, time.Minute, js.fuelInterval)
}

func TestScanLowFuel(t *testing.T) {
	checker := &MockFuelChecker{}
	checker.On("ScanAllTenants", mock.Anything).Return(3, nil).Once()
	checker.On("ScanAllTenants", mock.Anything).Return(0, errors.New("db down")).Once()

	js, err := NewJobScheduler(&MockTokenCleaner{}, checker, 0, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.Equal(t, 15*time.Minute, js.fuelInterval)
	assert.NoError(t, js.scanLowFuel(context.Background()))
	assert.Error(t, js.scanLowFuel(context.Background()))
	checker.AssertExpectations(t)
}

func TestCleanupRefreshTokens(t *testing.T) {
	cleaner := &MockTokenCleaner{}
	cleaner.On("CleanupExpiredTokens", mock.Anything).Return(int64(4), nil).Once()

	js, err := NewJobScheduler(cleaner, nil, 0, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.NoError(t, js.cleanupRefreshTokens(context.Background()))
	cleaner.AssertExpectations(t)
}

func TestCleanupRefreshTokens_Error(t *testing.T) {
	cleaner := &MockTokenCleaner{}
	cleaner.On("CleanupExpiredTokens", mock.Anything).Return(int64(0), errors.New("db down")).Once()

	js, err := NewJobScheduler(cleaner, nil, 0, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.Error(t, js.cleanupRefreshTokens(context.Background()))
}

func TestRunNow_UnknownJob(t *testing.T) {
	js, err := NewJobScheduler(&MockTokenCleaner{}, nil, 0, zap.NewNop())
	require.NoError(t, err)
	defer js.Stop()

	assert.Error(t, js.RunNow("missing"))
}
