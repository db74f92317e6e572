package queue

import (
	"time"

	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/service"
)

// Worker runs scheduled publish tasks.
type Worker struct {
	pr      repository.PostRepository
	publish service.PublishService
}

func NewWorker(pr repository.PostRepository, publish service.PublishService) *Worker {
	return &Worker{
		pr:      pr,
		publish: publish,
	}
}

const TaskTypePublishPost = "social:publish"

type PublishPostPayload struct {
	PostID      int64     `json:"post_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
