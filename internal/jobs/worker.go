package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const workerConcurrency = 5

// Worker consumes the email queue in-process.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *zap.Logger
}

func NewWorker(redisOpt asynq.RedisClientOpt, emailHandler *EmailHandler, log *zap.Logger) *Worker {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: workerConcurrency,
		Queues:      map[string]int{QueueEmail: 1},
		Logger:      log.Named("asynq").Sugar(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Warn("task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeEmailSend, emailHandler)

	return &Worker{server: server, mux: mux, log: log}
}

// Start runs the worker in the background.
func (w *Worker) Start() error {
	w.log.Info("starting email worker", zap.Int("concurrency", workerConcurrency))
	return w.server.Start(w.mux)
}

func (w *Worker) Stop() {
	w.server.Shutdown()
}
