package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sally/internal/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task type definitions
const (
	TypeEmailSend = "email:send"

	QueueEmail     = "email"
	emailMaxRetry  = 8
	emailTaskLimit = 30 * time.Second
)

// EmailPayload is the serialized message carried by an email:send task.
type EmailPayload struct {
	Message services.EmailMessage `json:"message"`
}

// NewEmailTask creates an email:send task bound to the email queue.
func NewEmailTask(msg services.EmailMessage) (*asynq.Task, error) {
	data, err := json.Marshal(EmailPayload{Message: msg})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, data,
		asynq.Queue(QueueEmail),
		asynq.MaxRetry(emailMaxRetry),
		asynq.Timeout(emailTaskLimit),
	), nil
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EmailDispatcher enqueues rendered emails instead of sending them inline.
type EmailDispatcher struct {
	client TaskEnqueuer
	log    *zap.Logger
}

func NewEmailDispatcher(client TaskEnqueuer, log *zap.Logger) *EmailDispatcher {
	return &EmailDispatcher{client: client, log: log.Named("email_dispatcher")}
}

func (d *EmailDispatcher) Dispatch(ctx context.Context, msg services.EmailMessage) error {
	task, err := NewEmailTask(msg)
	if err != nil {
		return fmt.Errorf("failed to build email task: %w", err)
	}
	info, err := d.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	d.log.Debug("email task enqueued", zap.String("task_id", info.ID), zap.Strings("to", msg.To))
	return nil
}

// EmailHandler delivers email:send tasks through the configured transport.
type EmailHandler struct {
	transport services.EmailTransport
	log       *zap.Logger
}

func NewEmailHandler(transport services.EmailTransport, log *zap.Logger) *EmailHandler {
	return &EmailHandler{transport: transport, log: log.Named("email_worker")}
}

// ProcessTask returns transport errors so asynq retries with backoff.
// Malformed payloads are skipped since a retry cannot fix them.
func (h *EmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.transport.Send(ctx, payload.Message); err != nil {
		h.log.Warn("email delivery failed",
			zap.String("transport", h.transport.Name()),
			zap.Strings("to", payload.Message.To),
			zap.Error(err),
		)
		return err
	}

	h.log.Info("email delivered",
		zap.String("transport", h.transport.Name()),
		zap.Strings("to", payload.Message.To),
		zap.String("subject", payload.Message.Subject),
	)
	return nil
}
