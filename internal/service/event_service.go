package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type EventService interface {
	List(ctx context.Context, status string, page transfer.Page) ([]*models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, actor Actor, e *models.Event) (*models.Event, error)
	Update(ctx context.Context, actor Actor, e *models.Event) (*models.Event, error)
	Remove(ctx context.Context, actor Actor, id int64) error
	Upcoming(ctx context.Context, limit int) ([]*models.Event, error)
}

type eventService struct {
	er repository.EventRepository
	al ActivityService
}

func NewEventService(er repository.EventRepository, al ActivityService) EventService {
	return &eventService{er: er, al: al}
}

func (s *eventService) List(ctx context.Context, status string, page transfer.Page) ([]*models.Event, error) {
	return s.er.List(ctx, status, page)
}

func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	e, err := s.er.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func prepareEvent(e *models.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if err := required("title", e.Title); err != nil {
		return err
	}
	if e.StartsAt.IsZero() {
		return invalid("starts_at", "is required")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return invalid("ends_at", "must not be before starts_at")
	}

	if strings.TrimSpace(e.Slug) == "" {
		e.Slug = e.Title + " " + e.StartsAt.Format("2006-01-02")
	}
	e.Slug = utils.Slugify(e.Slug)

	switch e.Status {
	case "":
		e.Status = models.EventStatusDraft
	case models.EventStatusDraft, models.EventStatusPublished, models.EventStatusCancelled:
	default:
		return invalid("status", "must be draft, published or cancelled")
	}
	e.Description = utils.SanitizeHTML(e.Description)
	return nil
}

func (s *eventService) Create(ctx context.Context, actor Actor, e *models.Event) (*models.Event, error) {
	if err := prepareEvent(e); err != nil {
		return nil, err
	}
	e.CreatedBy = ptr(actor.UserID)
	id, err := s.er.Create(ctx, e)
	if err != nil {
		return nil, conflictOr(err)
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceEvents, id, models.Details{"title": e.Title})
	return s.Get(ctx, id)
}

func (s *eventService) Update(ctx context.Context, actor Actor, e *models.Event) (*models.Event, error) {
	if err := prepareEvent(e); err != nil {
		return nil, err
	}
	found, err := s.er.Update(ctx, e)
	if err := notFoundUnless(found, conflictOr(err)); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceEvents, e.ID, models.Details{"status": e.Status})
	return s.Get(ctx, e.ID)
}

func (s *eventService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.er.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceEvents, id, nil)
	return nil
}

func (s *eventService) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	return s.er.ListUpcoming(ctx, now(), transfer.NewPage(limit, 0).Limit)
}
