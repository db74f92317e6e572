package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/jmoiron/sqlx"
)

// Scheduler queues a publish attempt for later.
type Scheduler interface {
	SchedulePublish(ctx context.Context, postID int64, at time.Time) error
}

type PostService interface {
	List(ctx context.Context, status string, page transfer.Page) ([]*models.SocialPost, error)
	Get(ctx context.Context, id int64) (*transfer.PostDetail, error)
	Create(ctx context.Context, actor Actor, pc *transfer.PostCreation) (*transfer.PostDetail, error)
	Update(ctx context.Context, actor Actor, id int64, pu *transfer.PostUpdate) (*transfer.PostDetail, error)
	// Remove deletes the post, or archives it once any link was
	// published. It reports whether it archived.
	Remove(ctx context.Context, actor Actor, id int64) (bool, error)
}

type postService struct {
	tx        repository.Transactor
	pr        repository.PostRepository
	pp        repository.PostPlatformRepository
	ac        repository.SocialAccountRepository
	al        ActivityService
	scheduler Scheduler
}

func NewPostService(
	tx repository.Transactor,
	pr repository.PostRepository,
	pp repository.PostPlatformRepository,
	ac repository.SocialAccountRepository,
	al ActivityService,
	scheduler Scheduler) PostService {
	return &postService{
		tx:        tx,
		pr:        pr,
		pp:        pp,
		ac:        ac,
		al:        al,
		scheduler: scheduler,
	}
}

var postStatuses = []string{
	models.PostStatusDraft, models.PostStatusScheduled, models.PostStatusPublishing,
	models.PostStatusPublished, models.PostStatusFailed, models.PostStatusArchived,
}

func (s *postService) List(ctx context.Context, status string, page transfer.Page) ([]*models.SocialPost, error) {
	if status != "" && !contains(postStatuses, status) {
		return nil, invalid("status", "unknown status")
	}
	return s.pr.List(ctx, status, page)
}

func (s *postService) Get(ctx context.Context, id int64) (*transfer.PostDetail, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	links, err := s.pp.ListByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transfer.PostDetail{SocialPost: post, Platforms: links}, nil
}

func resolveMediaType(mediaType string, urls []string) (string, error) {
	if mediaType == "" {
		switch len(urls) {
		case 0:
			return models.MediaTypeNone, nil
		case 1:
			if isVideo(urls[0]) {
				return models.MediaTypeVideo, nil
			}
			return models.MediaTypeImage, nil
		default:
			return models.MediaTypeCarousel, nil
		}
	}

	switch mediaType {
	case models.MediaTypeNone, models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeCarousel:
	default:
		return "", invalid("media_type", "must be none, image, video or carousel")
	}
	if mediaType != models.MediaTypeNone && len(urls) == 0 {
		return "", invalid("media_urls", "is required for media posts")
	}
	return mediaType, nil
}

func isVideo(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range []string{".mp4", ".mov", ".m4v", ".webm"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (s *postService) validateAccounts(ctx context.Context, ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalid("account_ids", fmt.Sprintf("account %d listed twice", id))
		}
		seen[id] = struct{}{}

		account, err := s.ac.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return invalid("account_ids", fmt.Sprintf("social account %d does not exist", id))
		}
		if account.Status != models.AccountStatusActive {
			return invalid("account_ids", fmt.Sprintf("social account %d is inactive", id))
		}
	}
	return nil
}

func (s *postService) Create(ctx context.Context, actor Actor, pc *transfer.PostCreation) (*transfer.PostDetail, error) {
	if err := required("content", pc.Content); err != nil {
		return nil, err
	}
	mediaType, err := resolveMediaType(pc.MediaType, pc.MediaURLs)
	if err != nil {
		return nil, err
	}
	if err := s.validateAccounts(ctx, pc.AccountIDs); err != nil {
		return nil, err
	}

	status := models.PostStatusDraft
	if pc.ScheduledAt != nil {
		if !pc.ScheduledAt.After(now()) {
			return nil, invalid("scheduled_at", "must be in the future")
		}
		status = models.PostStatusScheduled
	}

	post := &models.SocialPost{
		Title:       strings.TrimSpace(pc.Title),
		Content:     pc.Content,
		MediaURLs:   pc.MediaURLs,
		MediaType:   mediaType,
		Status:      status,
		ScheduledAt: pc.ScheduledAt,
		CreatedBy:   ptr(actor.UserID),
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := s.pr.Create(ctx, tx, post)
		if err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}
		post.ID = id

		for _, accountID := range pc.AccountIDs {
			if err := s.pp.Create(ctx, tx, id, accountID); err != nil {
				return fmt.Errorf("error saving selected account %d: %w", accountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceSocialMediaPosts, post.ID,
		models.Details{"status": status, "accounts": len(pc.AccountIDs)})

	if status == models.PostStatusScheduled {
		if err := s.schedule(ctx, post); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, post.ID)
}

// schedule queues the publish task, falling back to draft when the queue
// rejects it so the post is not left waiting forever.
func (s *postService) schedule(ctx context.Context, post *models.SocialPost) error {
	if s.scheduler == nil {
		return nil
	}
	if err := s.scheduler.SchedulePublish(ctx, post.ID, *post.ScheduledAt); err != nil {
		slog.Error("failed to schedule post", "post_id", post.ID, "error", err)
		if err := s.pr.UpdatePostStatus(ctx, models.PostStatusDraft, post.ID); err != nil {
			slog.Error("failed to revert post to draft", "post_id", post.ID, "error", err)
		}
		return fmt.Errorf("schedule post %d: %w", post.ID, err)
	}
	return nil
}

func (s *postService) Update(ctx context.Context, actor Actor, id int64, pu *transfer.PostUpdate) (*transfer.PostDetail, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	switch post.Status {
	case models.PostStatusPublishing:
		return nil, fmt.Errorf("%w: post is being published", ErrConflict)
	case models.PostStatusArchived:
		return nil, fmt.Errorf("%w: post is archived", ErrConflict)
	}

	if pu.Title != nil {
		post.Title = strings.TrimSpace(*pu.Title)
	}
	if pu.Content != nil {
		if err := required("content", *pu.Content); err != nil {
			return nil, err
		}
		post.Content = *pu.Content
	}
	if pu.MediaURLs != nil {
		post.MediaURLs = pu.MediaURLs
	}
	mediaType := post.MediaType
	if pu.MediaType != nil {
		mediaType = *pu.MediaType
	} else if pu.MediaURLs != nil {
		mediaType = ""
	}
	if post.MediaType, err = resolveMediaType(mediaType, post.MediaURLs); err != nil {
		return nil, err
	}

	rescheduled := false
	if pu.ScheduledAt != nil {
		if !pu.ScheduledAt.After(now()) {
			return nil, invalid("scheduled_at", "must be in the future")
		}
		if post.Status == models.PostStatusPublished {
			return nil, fmt.Errorf("%w: post is already published", ErrConflict)
		}
		post.ScheduledAt = pu.ScheduledAt
		post.Status = models.PostStatusScheduled
		rescheduled = true
	}

	if pu.AccountIDs != nil {
		if err := s.validateAccounts(ctx, pu.AccountIDs); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.pr.Update(ctx, tx, post); err != nil {
			return err
		}
		if pu.AccountIDs == nil {
			return nil
		}
		if err := s.pp.RemoveUnpublished(ctx, tx, id, pu.AccountIDs); err != nil {
			return err
		}
		for _, accountID := range pu.AccountIDs {
			if err := s.pp.Create(ctx, tx, id, accountID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceSocialMediaPosts, id, models.Details{"status": post.Status})

	if rescheduled {
		if err := s.schedule(ctx, post); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *postService) Remove(ctx context.Context, actor Actor, id int64) (bool, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, ErrNotFound
	}

	published, err := s.pp.CountPublished(ctx, id)
	if err != nil {
		return false, err
	}

	if published > 0 {
		if err := s.pr.UpdatePostStatus(ctx, models.PostStatusArchived, id); err != nil {
			return false, err
		}
		s.al.Log(ctx, actor, models.ActionArchive, models.ResourceSocialMediaPosts, id,
			models.Details{"published_links": published})
		return true, nil
	}

	if err := s.pr.Remove(ctx, id); err != nil {
		return false, err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceSocialMediaPosts, id, models.Details{"title": post.Title})
	return false, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
