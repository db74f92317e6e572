package service

import (
	"context"
	"math"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type AnalyticsService interface {
	List(ctx context.Context, filter repository.AnalyticsFilter) ([]*models.SocialAnalytics, error)
	Record(ctx context.Context, actor Actor, in *transfer.AnalyticsInput) (*models.SocialAnalytics, error)
}

type analyticsService struct {
	an repository.AnalyticsRepository
	ac repository.SocialAccountRepository
	pr repository.PostRepository
	al ActivityService
}

func NewAnalyticsService(
	an repository.AnalyticsRepository,
	ac repository.SocialAccountRepository,
	pr repository.PostRepository,
	al ActivityService) AnalyticsService {
	return &analyticsService{an: an, ac: ac, pr: pr, al: al}
}

func (s *analyticsService) List(ctx context.Context, filter repository.AnalyticsFilter) ([]*models.SocialAnalytics, error) {
	if filter.Platform != "" && !models.IsValidPlatform(filter.Platform) {
		return nil, invalid("platform", "unknown platform")
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, invalid("date_to", "must not be before date_from")
	}
	return s.an.List(ctx, filter)
}

// Record upserts counters for a (post, account) pair. The platform is
// taken from the account and the engagement rate is derived when absent.
func (s *analyticsService) Record(ctx context.Context, actor Actor, in *transfer.AnalyticsInput) (*models.SocialAnalytics, error) {
	if in.PostID == 0 {
		return nil, invalid("post_id", "is required")
	}
	if in.AccountID == 0 {
		return nil, invalid("account_id", "is required")
	}
	for field, v := range map[string]int64{
		"likes": in.Likes, "comments": in.Comments, "shares": in.Shares, "views": in.Views,
		"reach": in.Reach, "impressions": in.Impressions, "clicks": in.Clicks,
	} {
		if v < 0 {
			return nil, invalid(field, "must not be negative")
		}
	}

	post, err := s.pr.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, invalid("post_id", "post does not exist")
	}
	account, err := s.ac.GetByID(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, invalid("account_id", "social account does not exist")
	}

	a := &models.SocialAnalytics{
		PostID:      in.PostID,
		AccountID:   in.AccountID,
		Platform:    account.Platform,
		Likes:       in.Likes,
		Comments:    in.Comments,
		Shares:      in.Shares,
		Views:       in.Views,
		Reach:       in.Reach,
		Impressions: in.Impressions,
		Clicks:      in.Clicks,
	}
	if in.EngagementRate != nil {
		a.EngagementRate = *in.EngagementRate
	} else {
		a.EngagementRate = math.Round(a.ComputeEngagementRate()*100) / 100
	}

	if err := s.an.Upsert(ctx, a); err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceSocialMediaAnalytics, a.ID,
		models.Details{"post_id": a.PostID, "account_id": a.AccountID})
	return a, nil
}
