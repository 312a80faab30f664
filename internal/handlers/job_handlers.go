package handlers

import (
	"net/http"
	"time"

	"sally/internal/common"

	"github.com/labstack/echo/v4"
)

// JobController is satisfied by background.JobScheduler.
type JobController interface {
	GetJobStatus() map[string]time.Time
	RunNow(name string) error
}

// JobHandlers exposes the maintenance scheduler to platform operators
type JobHandlers struct {
	scheduler JobController
}

func NewJobHandlers(scheduler JobController) *JobHandlers {
	return &JobHandlers{scheduler: scheduler}
}

// ListJobs returns every scheduled job with its next run time
func (h *JobHandlers) ListJobs(c echo.Context) error {
	status := h.scheduler.GetJobStatus()

	jobs := make([]map[string]interface{}, 0, len(status))
	for name, next := range status {
		jobs = append(jobs, map[string]interface{}{
			"name":     name,
			"next_run": next.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": jobs})
}

// RunJob triggers a job immediately
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if _, ok := h.scheduler.GetJobStatus()[name]; !ok {
		return common.NotFound("Job %s not found", name)
	}
	if err := h.scheduler.RunNow(name); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"job":     name,
		"message": "Job triggered",
	})
}
