package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues delayed publish tasks on asynq.
type Scheduler struct {
	client Enqueuer
}

func NewScheduler(client Enqueuer) *Scheduler {
	return &Scheduler{client: client}
}

// SchedulePublish enqueues a publish task processed at at. Scheduling the
// same post for the same instant twice is a no-op.
func (s *Scheduler) SchedulePublish(ctx context.Context, postID int64, at time.Time) error {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID, ScheduledAt: at})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, payload)
	taskID := fmt.Sprintf("post:%d:%d", postID, at.Unix())

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(taskID),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue publish of post %d: %w", postID, err)
	}

	slog.Info("publish scheduled", "post_id", postID, "at", at)
	return nil
}
