package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/publisher"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "0123456789abcdef0123456789abcdef"

type mockPublisher struct {
	mock.Mock
	platform string
}

func (m *mockPublisher) Platform() string {
	return m.platform
}

func (m *mockPublisher) Publish(ctx context.Context, target publisher.Target, content publisher.Content) (*publisher.PublishedRef, error) {
	args := m.Called(ctx, target, content)
	ref, _ := args.Get(0).(*publisher.PublishedRef)
	return ref, args.Error(1)
}

type publishFixture struct {
	service   PublishService
	posts     *testutil.Posts
	links     *testutil.Links
	accounts  *testutil.Accounts
	analytics *testutil.Analytics
	activity  *testutil.ActivityLog
	facebook  *mockPublisher
	instagram *mockPublisher
	telegram  *mockPublisher
	post      *models.SocialPost
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()
	f := &publishFixture{
		accounts: testutil.NewAccounts(
			&models.SocialAccount{Platform: models.PlatformFacebook, AccountName: "Grace Chapel"},
			&models.SocialAccount{Platform: models.PlatformInstagram, AccountName: "@gracechapel"},
			&models.SocialAccount{Platform: models.PlatformTelegram, AccountName: "Grace Chapel News"},
		),
		analytics: &testutil.Analytics{},
		activity:  &testutil.ActivityLog{},
		facebook:  &mockPublisher{platform: models.PlatformFacebook},
		instagram: &mockPublisher{platform: models.PlatformInstagram},
		telegram:  &mockPublisher{platform: models.PlatformTelegram},
	}
	f.post = &models.SocialPost{
		Title:     "Sunday Service",
		Content:   "Join us at 10am",
		MediaType: models.MediaTypeNone,
		Status:    models.PostStatusDraft,
		CreatedBy: ptr(int64(7)),
	}
	f.posts = testutil.NewPosts(f.post)
	f.links = testutil.NewLinks(f.accounts)
	for accountID := int64(1); accountID <= 3; accountID++ {
		f.links.Add(f.post.ID, accountID, models.LinkStatusPending)
	}

	registry := publisher.NewRegistry(f.facebook, f.instagram, f.telegram)
	al := NewActivityService(f.activity)
	accounts := NewSocialAccountService(f.accounts, f.links, al, testEncryptionKey)
	f.service = NewPublishService(f.posts, f.links, f.accounts, f.analytics, accounts, registry, al,
		PublishOptions{Concurrency: 2, PlatformTimeout: time.Second})

	t.Cleanup(func() {
		f.facebook.AssertExpectations(t)
		f.instagram.AssertExpectations(t)
		f.telegram.AssertExpectations(t)
	})
	return f
}

func ref(id string) *publisher.PublishedRef {
	return &publisher.PublishedRef{PlatformPostID: id, URL: "https://example.com/" + id}
}

func (f *publishFixture) linkStatuses(t *testing.T) map[int64]string {
	t.Helper()
	links, err := f.links.ListByPostID(context.Background(), f.post.ID)
	require.NoError(t, err)
	out := make(map[int64]string, len(links))
	for _, l := range links {
		out[l.AccountID] = l.Status
	}
	return out
}

func TestPublish_AllSucceed(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(c publisher.Content) bool {
		return c.Text == "Join us at 10am" && c.PostID == f.post.ID
	})).Return(ref("fb-1"), nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("ig-1"), nil).Once()
	f.telegram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("tg-1"), nil).Once()

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, "Post published successfully", resp.Message)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 3, resp.Summary.Success)
	assert.Equal(t, 0, resp.Summary.Failed)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, models.PlatformFacebook, resp.Results[0].Platform)
	assert.Equal(t, "fb-1", resp.Results[0].PlatformPostID)

	post, err := f.posts.GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.NotNil(t, post.PublishedAt)
	assert.Equal(t, []string{models.PostStatusPublishing, models.PostStatusPublished}, f.posts.Statuses)

	assert.Equal(t, []string{models.ActionPublish}, f.activity.Actions())
}

func TestPublish_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("fb-1"), nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("media container rejected")).Once()
	f.telegram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("tg-1"), nil).Once()

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, "Post published with 1 failure(s)", resp.Message)
	assert.Equal(t, 3, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.Success)
	assert.Equal(t, 1, resp.Summary.Failed)
	assert.Equal(t, "media container rejected", resp.Results[1].Error)

	assert.Equal(t, map[int64]string{
		1: models.LinkStatusPublished,
		2: models.LinkStatusFailed,
		3: models.LinkStatusPublished,
	}, f.linkStatuses(t))

	post, err := f.posts.GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)

	rows, err := f.analytics.List(ctx, repository.AnalyticsFilter{PostID: ptr(f.post.ID)})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, int64(2), row.AccountID, "failed links get no analytics row")
	}

	instagram, err := f.accounts.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, instagram.LastPostedAt)
	facebook, err := f.accounts.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, facebook.LastPostedAt)
}

func TestPublish_AllFail(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	for _, m := range []*mockPublisher{f.facebook, f.instagram, f.telegram} {
		m.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	}

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, "Post failed to publish on all platforms", resp.Message)
	assert.Equal(t, 0, resp.Summary.Success)
	assert.Equal(t, 3, resp.Summary.Failed)

	post, err := f.posts.GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusFailed, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestPublish_RepublishRetriesOnlyFailedLinks(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("fb-1"), nil).Once()
	f.telegram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("tg-1"), nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited")).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("ig-1"), nil).Once()

	_, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Success)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, models.PlatformInstagram, resp.Results[0].Platform)

	_, err = f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	assert.ErrorIs(t, err, ErrNothingToPublish)

	f.facebook.AssertNumberOfCalls(t, "Publish", 1)
	f.instagram.AssertNumberOfCalls(t, "Publish", 2)
}

func TestPublish_FailedRetryKeepsPublishedPost(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("fb-1"), nil).Once()
	f.telegram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("tg-1"), nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limited")).Twice()

	_, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.Success)
	assert.Equal(t, 1, resp.Summary.Failed)

	post, err := f.posts.GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, post.Status)
	assert.NotNil(t, post.PublishedAt)
}

func TestPublish_UnsupportedAndInactiveAccounts(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	_, err := f.accounts.Create(ctx, &models.SocialAccount{Platform: models.PlatformTikTok, AccountName: "@gracechapel"})
	require.NoError(t, err)
	f.links.Add(f.post.ID, 4, models.LinkStatusPending)
	require.NoError(t, f.accounts.SetStatus(ctx, 3, models.AccountStatusInactive))

	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("fb-1"), nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("ig-1"), nil).Once()

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.Failed)
	assert.Equal(t, "social account is inactive", resp.Results[2].Error)
	assert.Contains(t, resp.Results[3].Error, publisher.ErrUnsupportedPlatform.Error())
}

func TestPublish_StorageErrorRevertsToDraft(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.links.MarkPublishedErr = errors.New("connection reset")
	for _, m := range []*mockPublisher{f.facebook, f.instagram, f.telegram} {
		m.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("x"), nil).Once()
	}

	_, err := f.service.Publish(ctx, f.post.ID, Actor{UserID: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	post, err := f.posts.GetByID(ctx, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Empty(t, f.activity.Actions())
}

func TestPublish_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)

	_, err := f.service.Publish(ctx, 99, Actor{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.posts.UpdatePostStatus(ctx, models.PostStatusArchived, f.post.ID))
	_, err = f.service.Publish(ctx, f.post.ID, Actor{})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPublish_PanickingPublisherIsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newPublishFixture(t)
	f.facebook.On("Publish", mock.Anything, mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("nil map")
	}).Return(nil, nil).Once()
	f.instagram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("ig-1"), nil).Once()
	f.telegram.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(ref("tg-1"), nil).Once()

	resp, err := f.service.Publish(ctx, f.post.ID, Actor{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Failed)
	assert.Contains(t, resp.Results[0].Error, "panicked")
}
