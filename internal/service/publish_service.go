package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/publisher"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type PublishOptions struct {
	Concurrency     int
	PlatformTimeout time.Duration
}

type PublishService interface {
	// Publish sends the post to every linked account that has not
	// published it yet.
	Publish(ctx context.Context, postID int64, actor Actor) (*transfer.PublishResponse, error)
}

type publishService struct {
	pr       repository.PostRepository
	pp       repository.PostPlatformRepository
	ac       repository.SocialAccountRepository
	an       repository.AnalyticsRepository
	accounts SocialAccountService
	registry *publisher.Registry
	al       ActivityService
	opts     PublishOptions
}

func NewPublishService(
	pr repository.PostRepository,
	pp repository.PostPlatformRepository,
	ac repository.SocialAccountRepository,
	an repository.AnalyticsRepository,
	accounts SocialAccountService,
	registry *publisher.Registry,
	al ActivityService,
	opts PublishOptions) PublishService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &publishService{
		pr:       pr,
		pp:       pp,
		ac:       ac,
		an:       an,
		accounts: accounts,
		registry: registry,
		al:       al,
		opts:     opts,
	}
}

func (s *publishService) Publish(ctx context.Context, postID int64, actor Actor) (*transfer.PublishResponse, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.Status == models.PostStatusArchived {
		return nil, fmt.Errorf("%w: post is archived", ErrConflict)
	}

	links, err := s.pp.ListPublishable(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, ErrNothingToPublish
	}

	if err := s.pr.UpdatePostStatus(ctx, models.PostStatusPublishing, postID); err != nil {
		return nil, err
	}

	resp, err := s.run(ctx, post, links)
	if err != nil {
		slog.Error("publish aborted", "post_id", postID, "error", err)
		if revertErr := s.pr.UpdatePostStatus(context.WithoutCancel(ctx), models.PostStatusDraft, postID); revertErr != nil {
			slog.Error("failed to revert post to draft", "post_id", postID, "error", revertErr)
		}
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionPublish, models.ResourceSocialMediaPosts, postID, publishDetails(resp))
	return resp, nil
}

func (s *publishService) run(ctx context.Context, post *models.SocialPost, links []*models.SocialPostPlatform) (*transfer.PublishResponse, error) {
	content := publisher.ContentFromPost(post)
	results := make([]transfer.PublishResult, len(links))
	errs := make([]error, len(links))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.opts.Concurrency)

	for i, link := range links {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, link *models.SocialPostPlatform) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[i], errs[i] = s.publishLink(ctx, link, content)
		}(i, link)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	summary := transfer.PublishSummary{Total: len(results)}
	for _, r := range results {
		if r.Status == models.LinkStatusPublished {
			summary.Success++
		} else {
			summary.Failed++
		}
	}

	status := models.PostStatusFailed
	var publishedAt *time.Time
	if summary.Success > 0 {
		status = models.PostStatusPublished
		publishedAt = ptr(now())
	} else {
		// a retry that fails everywhere keeps links published by earlier runs
		earlier, err := s.pp.CountPublished(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		if earlier > 0 {
			status = models.PostStatusPublished
		}
	}
	if err := s.pr.SetOutcome(ctx, post.ID, status, publishedAt); err != nil {
		return nil, err
	}

	return &transfer.PublishResponse{
		Message: publishMessage(summary),
		Results: results,
		Summary: summary,
	}, nil
}

// publishLink attempts one account. Platform failures are recorded on the
// link; only storage failures are returned as errors.
func (s *publishService) publishLink(ctx context.Context, link *models.SocialPostPlatform, content publisher.Content) (transfer.PublishResult, error) {
	result := transfer.PublishResult{
		LinkID:      link.ID,
		AccountID:   link.AccountID,
		Platform:    link.Platform,
		AccountName: link.AccountName,
	}

	if err := s.pp.MarkPublishing(ctx, link.ID); err != nil {
		return result, fmt.Errorf("mark link %d publishing: %w", link.ID, err)
	}

	ref, publishErr := s.attempt(ctx, link, content)
	if publishErr != nil {
		slog.Warn("platform publish failed",
			"post_id", link.PostID, "account_id", link.AccountID, "platform", link.Platform, "error", publishErr)

		result.Status = models.LinkStatusFailed
		result.Error = publishErr.Error()
		if err := s.pp.MarkFailed(ctx, link.ID, publishErr.Error()); err != nil {
			return result, fmt.Errorf("mark link %d failed: %w", link.ID, err)
		}
		return result, nil
	}

	publishedAt := now()
	if err := s.pp.MarkPublished(ctx, link.ID, ref.PlatformPostID, ref.URL, publishedAt); err != nil {
		return result, fmt.Errorf("mark link %d published: %w", link.ID, err)
	}
	result.Status = models.LinkStatusPublished
	result.PlatformPostID = ref.PlatformPostID
	result.PlatformPostURL = ref.URL

	if err := s.ac.TouchLastPosted(ctx, link.AccountID, publishedAt); err != nil {
		slog.Warn("failed to update last_posted_at", "account_id", link.AccountID, "error", err)
	}
	if err := s.an.Seed(ctx, link.PostID, link.AccountID, link.Platform); err != nil {
		slog.Warn("failed to seed analytics", "post_id", link.PostID, "account_id", link.AccountID, "error", err)
	}
	return result, nil
}

func (s *publishService) attempt(ctx context.Context, link *models.SocialPostPlatform, content publisher.Content) (ref *publisher.PublishedRef, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("publisher panicked: %v", p)
		}
	}()

	pub, ok := s.registry.Get(link.Platform)
	if !ok {
		return nil, fmt.Errorf("%w: %s", publisher.ErrUnsupportedPlatform, link.Platform)
	}

	account, err := s.ac.GetByID(ctx, link.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.New("social account no longer exists")
	}
	if account.Status != models.AccountStatusActive {
		return nil, errors.New("social account is inactive")
	}

	creds, err := s.accounts.Credentials(account)
	if err != nil {
		return nil, err
	}

	target := publisher.Target{
		AccountID:   account.ID,
		Platform:    account.Platform,
		AccountName: account.AccountName,
		ExternalID:  account.ExternalID,
		Credentials: creds,
	}

	callCtx := ctx
	if s.opts.PlatformTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.PlatformTimeout)
		defer cancel()
	}

	ref, err = pub.Publish(callCtx, target, content)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, errors.New("publisher returned no reference")
	}
	return ref, nil
}

func publishMessage(summary transfer.PublishSummary) string {
	switch {
	case summary.Failed == 0:
		return "Post published successfully"
	case summary.Success == 0:
		return "Post failed to publish on all platforms"
	default:
		return fmt.Sprintf("Post published with %d failure(s)", summary.Failed)
	}
}

func publishDetails(resp *transfer.PublishResponse) models.Details {
	platforms := make([]map[string]any, 0, len(resp.Results))
	for _, r := range resp.Results {
		entry := map[string]any{
			"account_id": r.AccountID,
			"platform":   r.Platform,
			"status":     r.Status,
		}
		if r.Error != "" {
			entry["error"] = r.Error
		}
		platforms = append(platforms, entry)
	}
	return models.Details{
		"total":     resp.Summary.Total,
		"success":   resp.Summary.Success,
		"failed":    resp.Summary.Failed,
		"platforms": platforms,
	}
}
