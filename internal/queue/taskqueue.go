package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Envelope is the wire format for one queued task invocation.
type Envelope struct {
	JobID   string          `json:"job_id"`
	Task    string          `json:"task"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher is the broker surface TaskQueue needs; *amqp.Channel satisfies it.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// TaskQueue hands slow work to the background worker. Submit returns
// immediately with a job handle; progress and result land in the JobStore.
type TaskQueue struct {
	publisher Publisher
	store     *JobStore
}

func NewTaskQueue(publisher Publisher, store *JobStore) *TaskQueue {
	return &TaskQueue{publisher: publisher, store: store}
}

// DeclareTaskQueue sets up the durable queue both ends rely on.
func DeclareTaskQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		TaskQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

func (q *TaskQueue) Submit(ctx context.Context, task string, payload any) (string, error) {
	jobID := uuid.NewString()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal task payload: %w", err)
	}
	envelope, err := json.Marshal(Envelope{JobID: jobID, Task: task, Payload: body})
	if err != nil {
		return "", fmt.Errorf("marshal task envelope: %w", err)
	}

	if err := q.store.SetPending(ctx, jobID, task); err != nil {
		return "", fmt.Errorf("record pending job: %w", err)
	}

	err = q.publisher.Publish(
		"",            // default exchange
		TaskQueueName, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         envelope,
		},
	)
	if err != nil {
		return "", fmt.Errorf("publish task: %w", err)
	}
	return jobID, nil
}

// Status reads the job record for a submitted task.
func (q *TaskQueue) Status(ctx context.Context, jobID string) (*Job, error) {
	return q.store.Get(ctx, jobID)
}
