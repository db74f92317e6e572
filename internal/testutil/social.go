package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

type Accounts struct {
	mu   sync.Mutex
	rows map[int64]*models.SocialAccount
	next int64
}

func NewAccounts(accounts ...*models.SocialAccount) *Accounts {
	r := &Accounts{rows: make(map[int64]*models.SocialAccount)}
	for _, a := range accounts {
		_, _ = r.Create(context.Background(), a)
	}
	return r
}

func (r *Accounts) Create(_ context.Context, sa *models.SocialAccount) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sa.ID == 0 {
		r.next++
		sa.ID = r.next
	} else if sa.ID > r.next {
		r.next = sa.ID
	}
	if sa.Status == "" {
		sa.Status = models.AccountStatusActive
	}
	r.rows[sa.ID] = clone(sa)
	return sa.ID, nil
}

func (r *Accounts) GetByID(_ context.Context, id int64) (*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sa, ok := r.rows[id]; ok {
		return clone(sa), nil
	}
	return nil, nil
}

func (r *Accounts) List(_ context.Context, platform string, page transfer.Page) ([]*models.SocialAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialAccount
	for id := int64(1); id <= r.next; id++ {
		if sa, ok := r.rows[id]; ok && (platform == "" || sa.Platform == platform) {
			out = append(out, clone(sa))
		}
	}
	return window(out, page), nil
}

func (r *Accounts) Update(_ context.Context, sa *models.SocialAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[sa.ID]; ok {
		r.rows[sa.ID] = clone(sa)
	}
	return nil
}

func (r *Accounts) SetStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sa, ok := r.rows[id]; ok {
		sa.Status = status
	}
	return nil
}

func (r *Accounts) TouchLastPosted(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sa, ok := r.rows[id]; ok {
		sa.LastPostedAt = &at
	}
	return nil
}

func (r *Accounts) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type Posts struct {
	mu   sync.Mutex
	rows map[int64]*models.SocialPost
	next int64

	// SetOutcomeErr makes SetOutcome fail.
	SetOutcomeErr error
	// Statuses records every status written, in order.
	Statuses []string
}

func NewPosts(posts ...*models.SocialPost) *Posts {
	r := &Posts{rows: make(map[int64]*models.SocialPost)}
	for _, p := range posts {
		_, _ = r.Create(context.Background(), nil, p)
	}
	return r
}

func (r *Posts) Create(_ context.Context, _ *sqlx.Tx, post *models.SocialPost) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID == 0 {
		r.next++
		post.ID = r.next
	} else if post.ID > r.next {
		r.next = post.ID
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now()
	}
	r.rows[post.ID] = clone(post)
	return post.ID, nil
}

func (r *Posts) GetByID(_ context.Context, id int64) (*models.SocialPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[id]; ok {
		return clone(p), nil
	}
	return nil, nil
}

func (r *Posts) List(_ context.Context, status string, page transfer.Page) ([]*models.SocialPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialPost
	for id := r.next; id >= 1; id-- {
		if p, ok := r.rows[id]; ok && (status == "" || p.Status == status) {
			out = append(out, clone(p))
		}
	}
	return window(out, page), nil
}

func (r *Posts) Update(_ context.Context, _ *sqlx.Tx, post *models.SocialPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[post.ID]; ok {
		post.UpdatedAt = time.Now()
		r.rows[post.ID] = clone(post)
		r.Statuses = append(r.Statuses, post.Status)
	}
	return nil
}

func (r *Posts) UpdatePostStatus(_ context.Context, status string, postID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.rows[postID]; ok {
		p.Status = status
		p.UpdatedAt = time.Now()
		r.Statuses = append(r.Statuses, status)
	}
	return nil
}

func (r *Posts) SetOutcome(_ context.Context, postID int64, status string, publishedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SetOutcomeErr != nil {
		return r.SetOutcomeErr
	}
	if p, ok := r.rows[postID]; ok {
		p.Status = status
		if publishedAt != nil {
			p.PublishedAt = publishedAt
		}
		p.UpdatedAt = time.Now()
		r.Statuses = append(r.Statuses, status)
	}
	return nil
}

func (r *Posts) ListStuckPublishing(_ context.Context, updatedBefore time.Time) ([]*models.SocialPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.SocialPost
	for id := int64(1); id <= r.next; id++ {
		if p, ok := r.rows[id]; ok && p.Status == models.PostStatusPublishing && p.UpdatedAt.Before(updatedBefore) {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (r *Posts) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

// Links stores post platform links. Platform and account name are joined
// from accounts on read.
type Links struct {
	mu       sync.Mutex
	accounts *Accounts
	rows     []*models.SocialPostPlatform

	// MarkPublishedErr makes MarkPublished fail.
	MarkPublishedErr error
}

func NewLinks(accounts *Accounts) *Links {
	return &Links{accounts: accounts}
}

// Add inserts a link with the given status and returns it.
func (r *Links) Add(postID, accountID int64, status string) *models.SocialPostPlatform {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := &models.SocialPostPlatform{
		ID:        int64(len(r.rows) + 1),
		PostID:    postID,
		AccountID: accountID,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.rows = append(r.rows, l)
	return clone(l)
}

// Age moves a link's updated_at into the past.
func (r *Links) Age(id int64, by time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.find(id); l != nil {
		l.UpdatedAt = l.UpdatedAt.Add(-by)
	}
}

func (r *Links) find(id int64) *models.SocialPostPlatform {
	for _, l := range r.rows {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (r *Links) joined(l *models.SocialPostPlatform) *models.SocialPostPlatform {
	out := clone(l)
	if sa, _ := r.accounts.GetByID(context.Background(), l.AccountID); sa != nil {
		out.Platform = sa.Platform
		out.AccountName = sa.AccountName
	}
	return out
}

func (r *Links) Create(_ context.Context, _ *sqlx.Tx, postID, accountID int64) error {
	r.mu.Lock()
	exists := false
	for _, l := range r.rows {
		if l.PostID == postID && l.AccountID == accountID {
			exists = true
		}
	}
	r.mu.Unlock()
	if !exists {
		r.Add(postID, accountID, models.LinkStatusPending)
	}
	return nil
}

func (r *Links) list(postID int64, keep func(*models.SocialPostPlatform) bool) []*models.SocialPostPlatform {
	r.mu.Lock()
	var matched []*models.SocialPostPlatform
	for _, l := range r.rows {
		if l.PostID == postID && keep(l) {
			matched = append(matched, clone(l))
		}
	}
	r.mu.Unlock()

	out := []*models.SocialPostPlatform{}
	for _, l := range matched {
		out = append(out, r.joined(l))
	}
	return out
}

func (r *Links) ListByPostID(_ context.Context, postID int64) ([]*models.SocialPostPlatform, error) {
	return r.list(postID, func(*models.SocialPostPlatform) bool { return true }), nil
}

func (r *Links) ListPublishable(_ context.Context, postID int64) ([]*models.SocialPostPlatform, error) {
	return r.list(postID, (*models.SocialPostPlatform).Publishable), nil
}

func (r *Links) MarkPublishing(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.find(id); l != nil {
		l.Status = models.LinkStatusPublishing
		l.ErrorMessage = nil
		l.UpdatedAt = time.Now()
	}
	return nil
}

func (r *Links) MarkPublished(_ context.Context, id int64, platformPostID, platformPostURL string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MarkPublishedErr != nil {
		return r.MarkPublishedErr
	}
	if l := r.find(id); l != nil {
		l.Status = models.LinkStatusPublished
		l.PlatformPostID = &platformPostID
		l.PlatformPostURL = &platformPostURL
		l.PublishedAt = &at
		l.ErrorMessage = nil
		l.UpdatedAt = time.Now()
	}
	return nil
}

func (r *Links) MarkFailed(_ context.Context, id int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.find(id); l != nil {
		l.Status = models.LinkStatusFailed
		l.ErrorMessage = &message
		l.UpdatedAt = time.Now()
	}
	return nil
}

func (r *Links) count(match func(*models.SocialPostPlatform) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.rows {
		if l.Status == models.LinkStatusPublished && match(l) {
			n++
		}
	}
	return n
}

func (r *Links) CountPublished(_ context.Context, postID int64) (int, error) {
	return r.count(func(l *models.SocialPostPlatform) bool { return l.PostID == postID }), nil
}

func (r *Links) CountPublishedByAccount(_ context.Context, accountID int64) (int, error) {
	return r.count(func(l *models.SocialPostPlatform) bool { return l.AccountID == accountID }), nil
}

func (r *Links) RemoveUnpublished(_ context.Context, _ *sqlx.Tx, postID int64, keepAccountIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = slices.DeleteFunc(r.rows, func(l *models.SocialPostPlatform) bool {
		return l.PostID == postID && l.Publishable() && !slices.Contains(keepAccountIDs, l.AccountID)
	})
	return nil
}

func (r *Links) FailStale(_ context.Context, updatedBefore time.Time, message string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.rows {
		if l.Status == models.LinkStatusPublishing && l.UpdatedAt.Before(updatedBefore) {
			msg := message
			l.Status = models.LinkStatusFailed
			l.ErrorMessage = &msg
			l.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

type Analytics struct {
	mu   sync.Mutex
	rows []*models.SocialAnalytics
}

func (r *Analytics) Seed(_ context.Context, postID, accountID int64, platform string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.PostID == postID && a.AccountID == accountID {
			return nil
		}
	}
	r.rows = append(r.rows, &models.SocialAnalytics{
		ID: int64(len(r.rows) + 1), PostID: postID, AccountID: accountID, Platform: platform, SyncedAt: time.Now(),
	})
	return nil
}

func (r *Analytics) Upsert(_ context.Context, in *models.SocialAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	in.SyncedAt = time.Now()
	for i, a := range r.rows {
		if a.PostID == in.PostID && a.AccountID == in.AccountID {
			in.ID = a.ID
			r.rows[i] = clone(in)
			return nil
		}
	}
	in.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, clone(in))
	return nil
}

func (r *Analytics) List(_ context.Context, filter repository.AnalyticsFilter) ([]*models.SocialAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.SocialAnalytics{}
	for _, a := range r.rows {
		if filter.PostID != nil && a.PostID != *filter.PostID {
			continue
		}
		if filter.Platform != "" && a.Platform != filter.Platform {
			continue
		}
		out = append(out, clone(a))
	}
	return out, nil
}
