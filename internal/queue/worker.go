package queue

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// HandlerFunc executes one task invocation and returns the job result.
type HandlerFunc func(ctx context.Context, jobID string, payload json.RawMessage) (any, error)

// Worker consumes task envelopes and runs the registered handler for each.
// Failures are terminal: the job is marked failed and the delivery acked,
// never requeued.
type Worker struct {
	Store    *JobStore
	Logger   *zap.Logger
	handlers map[string]HandlerFunc
}

func NewWorker(store *JobStore, logger *zap.Logger) *Worker {
	return &Worker{
		Store:    store,
		Logger:   logger,
		handlers: map[string]HandlerFunc{},
	}
}

func (w *Worker) Handle(task string, fn HandlerFunc) {
	w.handlers[task] = fn
}

// Run processes deliveries until the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		w.process(ctx, d)
	}
}

func (w *Worker) process(ctx context.Context, d amqp.Delivery) {
	defer d.Ack(false)

	var envelope Envelope
	if err := json.Unmarshal(d.Body, &envelope); err != nil {
		w.Logger.Error("worker: invalid task envelope", zap.Error(err))
		return
	}

	handler, ok := w.handlers[envelope.Task]
	if !ok {
		w.Logger.Error("worker: unknown task", zap.String("task", envelope.Task))
		if err := w.Store.SetFailure(ctx, envelope.JobID, "unknown task: "+envelope.Task); err != nil {
			w.Logger.Error("worker: record failure", zap.String("job_id", envelope.JobID), zap.Error(err))
		}
		return
	}

	w.Logger.Info("worker: task started", zap.String("task", envelope.Task), zap.String("job_id", envelope.JobID))
	if err := w.Store.SetStarted(ctx, envelope.JobID); err != nil {
		w.Logger.Error("worker: mark started", zap.String("job_id", envelope.JobID), zap.Error(err))
	}

	result, err := handler(ctx, envelope.JobID, envelope.Payload)
	if err != nil {
		w.Logger.Error("worker: task failed", zap.String("task", envelope.Task), zap.String("job_id", envelope.JobID), zap.Error(err))
		if storeErr := w.Store.SetFailure(ctx, envelope.JobID, err.Error()); storeErr != nil {
			w.Logger.Error("worker: record failure", zap.String("job_id", envelope.JobID), zap.Error(storeErr))
		}
		return
	}

	if err := w.Store.SetSuccess(ctx, envelope.JobID, result); err != nil {
		w.Logger.Error("worker: record success", zap.String("job_id", envelope.JobID), zap.Error(err))
		return
	}
	w.Logger.Info("worker: task completed", zap.String("task", envelope.Task), zap.String("job_id", envelope.JobID))
}
