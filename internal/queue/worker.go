package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/hibiken/asynq"
)

// scheduleTolerance absorbs timestamp rounding between the payload and the
// stored post.
const scheduleTolerance = time.Second

func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}

	return w.PublishDue(ctx, payload)
}

// PublishDue publishes the post if it is still scheduled for the payload's
// time. Tasks left behind by a reschedule or a manual publish are dropped.
func (w *Worker) PublishDue(ctx context.Context, payload PublishPostPayload) error {
	post, err := w.pr.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("scheduled post no longer exists", "post_id", payload.PostID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("skipping scheduled publish", "post_id", post.ID, "status", post.Status)
		return nil
	}
	if post.ScheduledAt == nil || post.ScheduledAt.Sub(payload.ScheduledAt).Abs() > scheduleTolerance {
		slog.Info("skipping superseded schedule", "post_id", post.ID)
		return nil
	}

	var actor service.Actor
	if post.CreatedBy != nil {
		actor.UserID = *post.CreatedBy
	}

	res, err := w.publish.Publish(ctx, post.ID, actor)
	switch {
	case errors.Is(err, service.ErrNothingToPublish):
		// links were removed or already sent
		slog.Info("scheduled post has nothing to publish, reverting to draft", "post_id", post.ID)
		return w.pr.UpdatePostStatus(ctx, models.PostStatusDraft, post.ID)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrConflict):
		slog.Info("scheduled publish dropped", "post_id", post.ID, "reason", err)
		return nil
	case err != nil:
		return err
	}

	slog.Info("scheduled publish finished", "post_id", post.ID,
		"success", res.Summary.Success, "failed", res.Summary.Failed)
	return nil
}
