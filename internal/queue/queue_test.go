package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

type mockPublishService struct {
	mock.Mock
}

func (m *mockPublishService) Publish(ctx context.Context, postID int64, actor service.Actor) (*transfer.PublishResponse, error) {
	args := m.Called(postID, actor)
	resp, _ := args.Get(0).(*transfer.PublishResponse)
	return resp, args.Error(1)
}

func TestSchedulePublish(t *testing.T) {
	at := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	enq := &mockEnqueuer{}
	enq.On("EnqueueContext", mock.MatchedBy(func(task *asynq.Task) bool {
		var p PublishPostPayload
		return task.Type() == TaskTypePublishPost &&
			json.Unmarshal(task.Payload(), &p) == nil &&
			p.PostID == 12 && p.ScheduledAt.Equal(at)
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "post:12"}, nil).Once()

	require.NoError(t, NewScheduler(enq).SchedulePublish(context.Background(), 12, at))
	enq.AssertExpectations(t)
}

func TestSchedulePublish_DuplicateIsNoop(t *testing.T) {
	enq := &mockEnqueuer{}
	enq.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, asynq.ErrTaskIDConflict).Once()
	assert.NoError(t, NewScheduler(enq).SchedulePublish(context.Background(), 12, time.Now().Add(time.Hour)))

	enq = &mockEnqueuer{}
	enq.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: refused")).Once()
	assert.Error(t, NewScheduler(enq).SchedulePublish(context.Background(), 12, time.Now().Add(time.Hour)))
}

func TestPublishDue(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)
	posts := testutil.NewPosts(
		&models.SocialPost{Content: "due", Status: models.PostStatusScheduled, ScheduledAt: &at, CreatedBy: ptr(int64(8))},
		&models.SocialPost{Content: "already sent", Status: models.PostStatusPublished, ScheduledAt: &at},
		&models.SocialPost{Content: "moved", Status: models.PostStatusScheduled, ScheduledAt: &later},
	)
	publish := &mockPublishService{}
	publish.On("Publish", int64(1), service.Actor{UserID: 8}).
		Return(&transfer.PublishResponse{Summary: transfer.PublishSummary{Total: 1, Success: 1}}, nil).Once()

	w := NewWorker(posts, publish)
	for _, postID := range []int64{1, 2, 3, 404} {
		require.NoError(t, w.PublishDue(ctx, PublishPostPayload{PostID: postID, ScheduledAt: at}))
	}
	publish.AssertExpectations(t)
}

func TestPublishDue_NothingToPublishRevertsToDraft(t *testing.T) {
	at := time.Now().Add(-time.Minute)
	posts := testutil.NewPosts(&models.SocialPost{Content: "x", Status: models.PostStatusScheduled, ScheduledAt: &at})
	publish := &mockPublishService{}
	publish.On("Publish", int64(1), service.Actor{}).Return(nil, service.ErrNothingToPublish).Once()

	err := NewWorker(posts, publish).PublishDue(context.Background(), PublishPostPayload{PostID: 1, ScheduledAt: at})
	require.NoError(t, err)

	post, err := posts.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	publish.AssertExpectations(t)
}

func TestHandlePublishPostTask_BadPayload(t *testing.T) {
	w := NewWorker(testutil.NewPosts(), &mockPublishService{})
	err := w.HandlePublishPostTask(context.Background(), asynq.NewTask(TaskTypePublishPost, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func ptr[T any](v T) *T {
	return &v
}
