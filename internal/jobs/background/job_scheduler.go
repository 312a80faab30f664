package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// TokenCleaner removes expired and long-revoked refresh tokens.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// FuelChecker scans active tenants for low-fuel vehicles.
type FuelChecker interface {
	ScanAllTenants(ctx context.Context) (int, error)
}

// JobScheduler runs periodic maintenance jobs
type JobScheduler struct {
	scheduler    gocron.Scheduler
	tokens       TokenCleaner
	fuel         FuelChecker
	fuelInterval time.Duration
	log          *zap.Logger
	jobJobs   map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler and registers its jobs. The low fuel
// scan is only registered when fuel is non-nil.
func NewJobScheduler(tokens TokenCleaner, fuel FuelChecker, fuelInterval time.Duration, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		tokens:       tokens,
		fuel:         fuel,
		fuelInterval: fuelInterval,
		log:          log.Named("scheduler"),
		jobJobs:      make(map[string]gocron.Job),
	}
	if js.fuelInterval <= 0 {
		js.fuelInterval = 15 * time.Minute
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler", zap.Int("jobs", len(js.jobJobs)))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	// Refresh token cleanup - every hour
	cleanupJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.cleanupRefreshTokens, context.Background()),
		gocron.WithName("refresh-token-cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobJobs["refresh-token-cleanup"] = cleanupJob
	js.mu.Unlock()

	if js.fuel == nil {
		return nil
	}

	fuelJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.fuelInterval),
		gocron.NewTask(js.scanLowFuel, context.Background()),
		gocron.WithName("low-fuel-scan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobJobs["low-fuel-scan"] = fuelJob
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) scanLowFuel(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	raised, err := js.fuel.ScanAllTenants(ctx)
	if err != nil {
		js.log.Error("low fuel scan failed", zap.Int("raised", raised), zap.Error(err))
		return err
	}
	js.log.Info("low fuel scan completed", zap.Int("raised", raised))
	return nil
}

func (js *JobScheduler) cleanupRefreshTokens(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	deleted, err := js.tokens.CleanupExpiredTokens(ctx)
	if err != nil {
		js.log.Error("refresh token cleanup failed", zap.Error(err))
		return err
	}
	js.log.Info("refresh token cleanup completed", zap.Int64("deleted", deleted))
	return nil
}

// GetJobStatus reports the next run of every registered job.
func (js *JobScheduler) GetJobStatus() map[string]time.Time {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]time.Time, len(js.jobJobs))
	for name, job := range js.jobJobs {
		next, err := job.NextRun()
		if err != nil {
			continue
		}
		status[name] = next
	}
	return status
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobJobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}
