package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) SchedulePublish(ctx context.Context, postID int64, at time.Time) error {
	return m.Called(ctx, postID, at).Error(0)
}

type postFixture struct {
	service   PostService
	posts     *testutil.Posts
	links     *testutil.Links
	accounts  *testutil.Accounts
	scheduler *mockScheduler
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	f := &postFixture{
		posts: testutil.NewPosts(),
		accounts: testutil.NewAccounts(
			&models.SocialAccount{Platform: models.PlatformFacebook, AccountName: "Grace Chapel"},
			&models.SocialAccount{Platform: models.PlatformInstagram, AccountName: "@gracechapel"},
			&models.SocialAccount{Platform: models.PlatformTelegram, AccountName: "old channel", Status: models.AccountStatusInactive},
		),
		scheduler: &mockScheduler{},
	}
	f.links = testutil.NewLinks(f.accounts)
	al := NewActivityService(&testutil.ActivityLog{})
	f.service = NewPostService(testutil.NoTx{}, f.posts, f.links, f.accounts, al, f.scheduler)
	t.Cleanup(func() { f.scheduler.AssertExpectations(t) })
	return f
}

func TestPostCreate_Draft(t *testing.T) {
	f := newPostFixture(t)

	detail, err := f.service.Create(context.Background(), Actor{UserID: 3}, &transfer.PostCreation{
		Title:      "  Youth night ",
		Content:    "Friday at 7pm",
		MediaURLs:  []string{"https://cdn.example.com/youth.jpg"},
		AccountIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PostStatusDraft, detail.Status)
	assert.Equal(t, "Youth night", detail.Title)
	assert.Equal(t, models.MediaTypeImage, detail.MediaType)
	assert.Equal(t, int64(3), *detail.CreatedBy)
	require.Len(t, detail.Platforms, 2)
	assert.Equal(t, models.PlatformInstagram, detail.Platforms[1].Platform)
	assert.Equal(t, models.LinkStatusPending, detail.Platforms[1].Status)
}

func TestPostCreate_Validation(t *testing.T) {
	f := newPostFixture(t)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name  string
		in    transfer.PostCreation
		field string
	}{
		{"missing content", transfer.PostCreation{Content: "  "}, "content"},
		{"bad media type", transfer.PostCreation{Content: "x", MediaType: "gif"}, "media_type"},
		{"media without urls", transfer.PostCreation{Content: "x", MediaType: models.MediaTypeVideo}, "media_urls"},
		{"unknown account", transfer.PostCreation{Content: "x", AccountIDs: []int64{42}}, "account_ids"},
		{"inactive account", transfer.PostCreation{Content: "x", AccountIDs: []int64{3}}, "account_ids"},
		{"duplicate account", transfer.PostCreation{Content: "x", AccountIDs: []int64{1, 1}}, "account_ids"},
		{"schedule in the past", transfer.PostCreation{Content: "x", ScheduledAt: &past}, "scheduled_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), Actor{}, &tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPostCreate_Scheduled(t *testing.T) {
	f := newPostFixture(t)
	at := time.Now().Add(2 * time.Hour)
	f.scheduler.On("SchedulePublish", mock.Anything, int64(1), at).Return(nil).Once()

	detail, err := f.service.Create(context.Background(), Actor{UserID: 3}, &transfer.PostCreation{
		Content:     "Easter service",
		ScheduledAt: &at,
		AccountIDs:  []int64{1},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, detail.Status)
}

func TestPostCreate_SchedulerFailureRevertsToDraft(t *testing.T) {
	f := newPostFixture(t)
	at := time.Now().Add(time.Hour)
	f.scheduler.On("SchedulePublish", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("redis unavailable")).Once()

	_, err := f.service.Create(context.Background(), Actor{}, &transfer.PostCreation{Content: "x", ScheduledAt: &at})
	require.Error(t, err)

	post, err := f.posts.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
}

func TestPostUpdate_SyncsAccounts(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	detail, err := f.service.Create(ctx, Actor{}, &transfer.PostCreation{Content: "x", AccountIDs: []int64{1, 2}})
	require.NoError(t, err)

	// facebook already went out, so it stays even when dropped from the list
	require.NoError(t, f.links.MarkPublished(ctx, detail.Platforms[0].ID, "fb-1", "https://fb/1", time.Now()))

	content := "updated"
	updated, err := f.service.Update(ctx, Actor{}, detail.ID, &transfer.PostUpdate{
		Content:    &content,
		AccountIDs: []int64{},
	})
	require.NoError(t, err)
	assert.Equal(t, "updated", updated.Content)
	require.Len(t, updated.Platforms, 1)
	assert.Equal(t, int64(1), updated.Platforms[0].AccountID)
}

func TestPostUpdate_Conflicts(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)
	detail, err := f.service.Create(ctx, Actor{}, &transfer.PostCreation{Content: "x"})
	require.NoError(t, err)

	require.NoError(t, f.posts.UpdatePostStatus(ctx, models.PostStatusPublishing, detail.ID))
	_, err = f.service.Update(ctx, Actor{}, detail.ID, &transfer.PostUpdate{Title: ptr("t")})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, f.posts.UpdatePostStatus(ctx, models.PostStatusPublished, detail.ID))
	later := time.Now().Add(time.Hour)
	_, err = f.service.Update(ctx, Actor{}, detail.ID, &transfer.PostUpdate{ScheduledAt: &later})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.service.Update(ctx, Actor{}, 404, &transfer.PostUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostRemove_DeletesOrArchives(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t)

	draft, err := f.service.Create(ctx, Actor{}, &transfer.PostCreation{Content: "draft", AccountIDs: []int64{1}})
	require.NoError(t, err)
	archived, err := f.service.Remove(ctx, Actor{}, draft.ID)
	require.NoError(t, err)
	assert.False(t, archived)
	post, err := f.posts.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, post)

	sent, err := f.service.Create(ctx, Actor{}, &transfer.PostCreation{Content: "sent", AccountIDs: []int64{1}})
	require.NoError(t, err)
	require.NoError(t, f.links.MarkPublished(ctx, sent.Platforms[0].ID, "fb-2", "https://fb/2", time.Now()))

	archived, err = f.service.Remove(ctx, Actor{}, sent.ID)
	require.NoError(t, err)
	assert.True(t, archived)
	post, err = f.posts.GetByID(ctx, sent.ID)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, models.PostStatusArchived, post.Status)

	_, err = f.service.Remove(ctx, Actor{}, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
