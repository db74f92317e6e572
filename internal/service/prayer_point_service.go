package service

import (
	"context"
	"strings"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
)

type PrayerPointService interface {
	ListByFollower(ctx context.Context, followerID int64, status string) ([]*models.PrayerPoint, error)
	Get(ctx context.Context, id int64) (*models.PrayerPoint, error)
	Create(ctx context.Context, actor Actor, p *models.PrayerPoint) (*models.PrayerPoint, error)
	Update(ctx context.Context, actor Actor, p *models.PrayerPoint) (*models.PrayerPoint, error)
	SetStatus(ctx context.Context, actor Actor, id int64, status string) (*models.PrayerPoint, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type prayerPointService struct {
	pp repository.PrayerPointRepository
	fr repository.FollowerRepository
	al ActivityService
}

func NewPrayerPointService(pp repository.PrayerPointRepository, fr repository.FollowerRepository, al ActivityService) PrayerPointService {
	return &prayerPointService{pp: pp, fr: fr, al: al}
}

func (s *prayerPointService) ListByFollower(ctx context.Context, followerID int64, status string) ([]*models.PrayerPoint, error) {
	if status != "" && !models.IsValidPrayerStatus(status) {
		return nil, invalid("status", "must be pending, happened or not_happened")
	}
	follower, err := s.fr.GetByID(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, ErrNotFound
	}
	return s.pp.ListByFollower(ctx, followerID, status)
}

func (s *prayerPointService) Get(ctx context.Context, id int64) (*models.PrayerPoint, error) {
	p, err := s.pp.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *prayerPointService) Create(ctx context.Context, actor Actor, p *models.PrayerPoint) (*models.PrayerPoint, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := required("title", p.Title); err != nil {
		return nil, err
	}
	follower, err := s.fr.GetByID(ctx, p.FollowerID)
	if err != nil {
		return nil, err
	}
	if follower == nil {
		return nil, ErrNotFound
	}

	p.Status = models.PrayerStatusPending
	id, err := s.pp.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceFollowers, id,
		models.Details{"kind": "prayer_point", "follower_id": p.FollowerID})
	return s.Get(ctx, id)
}

func (s *prayerPointService) Update(ctx context.Context, actor Actor, p *models.PrayerPoint) (*models.PrayerPoint, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := required("title", p.Title); err != nil {
		return nil, err
	}
	found, err := s.pp.Update(ctx, p)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceFollowers, p.ID, models.Details{"kind": "prayer_point"})
	return s.Get(ctx, p.ID)
}

// SetStatus records the outcome. answered_at is stamped for happened
// and cleared when the point goes back to pending.
func (s *prayerPointService) SetStatus(ctx context.Context, actor Actor, id int64, status string) (*models.PrayerPoint, error) {
	if !models.IsValidPrayerStatus(status) {
		return nil, invalid("status", "must be pending, happened or not_happened")
	}

	var answeredAt *time.Time
	if status == models.PrayerStatusHappened {
		answeredAt = ptr(now())
	}

	found, err := s.pp.SetStatus(ctx, id, status, answeredAt)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceFollowers, id,
		models.Details{"kind": "prayer_point", "status": status})
	return s.Get(ctx, id)
}

func (s *prayerPointService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.pp.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceFollowers, id, models.Details{"kind": "prayer_point"})
	return nil
}
