package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/openoutreach/outreach-backend/internal/errors"
)

// Job states as exposed on the task-status endpoint.
const (
	JobStatePending  = "PENDING"
	JobStateStarted  = "STARTED"
	JobStateProgress = "PROGRESS"
	JobStateSuccess  = "SUCCESS"
	JobStateFailure  = "FAILURE"
)

// Job is the progress/result record for one submitted task.
type Job struct {
	ID      string          `json:"id"`
	Task    string          `json:"task"`
	State   string          `json:"state"`
	Current int             `json:"current"`
	Total   int             `json:"total"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// JobStore keeps job records in Redis with a TTL, the way a result backend
// would.
type JobStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewJobStore(rdb *redis.Client, ttl time.Duration) *JobStore {
	return &JobStore{rdb: rdb, ttl: ttl}
}

func jobKey(id string) string {
	return "job:" + id
}

func (s *JobStore) save(ctx context.Context, job *Job) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, jobKey(job.ID), b, s.ttl).Err()
}

func (s *JobStore) Get(ctx context.Context, id string) (*Job, error) {
	b, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, &apperrors.NotFoundError{Resource: "job " + id}
		}
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(b, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *JobStore) SetPending(ctx context.Context, id, task string) error {
	return s.save(ctx, &Job{ID: id, Task: task, State: JobStatePending, Total: 1})
}

func (s *JobStore) SetStarted(ctx context.Context, id string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	job.State = JobStateStarted
	return s.save(ctx, job)
}

func (s *JobStore) SetProgress(ctx context.Context, id string, current, total int) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	job.State = JobStateProgress
	job.Current = current
	job.Total = total
	return s.save(ctx, job)
}

func (s *JobStore) SetSuccess(ctx context.Context, id string, result any) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal job result: %w", err)
	}
	job.State = JobStateSuccess
	job.Current = job.Total
	job.Result = b
	return s.save(ctx, job)
}

func (s *JobStore) SetFailure(ctx context.Context, id, errMsg string) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	job.State = JobStateFailure
	job.Error = errMsg
	return s.save(ctx, job)
}
