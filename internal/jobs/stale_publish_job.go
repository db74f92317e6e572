package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
)

const interruptedMessage = "publish interrupted"

// StalePublishJob recovers publish attempts abandoned by a crash. Links
// stuck in publishing are failed, and posts stuck in publishing are
// settled from their links so a user can publish again.
type StalePublishJob struct {
	pr    repository.PostRepository
	pp    repository.PostPlatformRepository
	after time.Duration
	now   func() time.Time
}

func NewStalePublishJob(pr repository.PostRepository, pp repository.PostPlatformRepository, after time.Duration) *StalePublishJob {
	return &StalePublishJob{
		pr:    pr,
		pp:    pp,
		after: after,
		now:   time.Now,
	}
}

// Run is the cron entry point.
func (j *StalePublishJob) Run() {
	j.Recover(context.Background())
}

func (j *StalePublishJob) Recover(ctx context.Context) {
	cutoff := j.now().Add(-j.after)

	failed, err := j.pp.FailStale(ctx, cutoff, interruptedMessage)
	if err != nil {
		slog.Error("failed to fail stale links", "error", err)
		return
	}
	if failed > 0 {
		slog.Warn("failed stale publish links", "count", failed)
	}

	posts, err := j.pr.ListStuckPublishing(ctx, cutoff)
	if err != nil {
		slog.Error("failed to list stuck posts", "error", err)
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 4)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post *models.SocialPost) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.settle(ctx, post); err != nil {
				slog.Error("failed to settle stuck post", "post_id", post.ID, "error", err)
			}
		}(post)
	}

	wg.Wait()
}

func (j *StalePublishJob) settle(ctx context.Context, post *models.SocialPost) error {
	links, err := j.pp.ListByPostID(ctx, post.ID)
	if err != nil {
		return err
	}

	published := 0
	for _, l := range links {
		switch l.Status {
		case models.LinkStatusPublishing:
			// still running, or newer than the cutoff
			return nil
		case models.LinkStatusPublished:
			published++
		}
	}

	status := models.PostStatusFailed
	var publishedAt *time.Time
	if published > 0 {
		status = models.PostStatusPublished
		if post.PublishedAt == nil {
			at := j.now()
			publishedAt = &at
		}
	}

	slog.Info("settling stuck post", "post_id", post.ID, "status", status)
	return j.pr.SetOutcome(ctx, post.ID, status, publishedAt)
}
