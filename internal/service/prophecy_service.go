package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type ProphecyService interface {
	List(ctx context.Context, category string, page transfer.Page) ([]*models.Prophecy, error)
	Get(ctx context.Context, id int64) (*models.Prophecy, error)
	Create(ctx context.Context, actor Actor, p *models.Prophecy) (*models.Prophecy, error)
	Update(ctx context.Context, actor Actor, p *models.Prophecy) (*models.Prophecy, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type prophecyService struct {
	pr repository.ProphecyRepository
	al ActivityService
}

func NewProphecyService(pr repository.ProphecyRepository, al ActivityService) ProphecyService {
	return &prophecyService{pr: pr, al: al}
}

func (s *prophecyService) List(ctx context.Context, category string, page transfer.Page) ([]*models.Prophecy, error) {
	return s.pr.List(ctx, category, page)
}

func (s *prophecyService) Get(ctx context.Context, id int64) (*models.Prophecy, error) {
	p, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func prepareProphecy(p *models.Prophecy) error {
	p.Title = strings.TrimSpace(p.Title)
	if err := required("title", p.Title); err != nil {
		return err
	}
	return required("content", p.Content)
}

func (s *prophecyService) Create(ctx context.Context, actor Actor, p *models.Prophecy) (*models.Prophecy, error) {
	if err := prepareProphecy(p); err != nil {
		return nil, err
	}
	p.CreatedBy = ptr(actor.UserID)
	id, err := s.pr.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceProphecy, id, models.Details{"title": p.Title})
	return s.Get(ctx, id)
}

func (s *prophecyService) Update(ctx context.Context, actor Actor, p *models.Prophecy) (*models.Prophecy, error) {
	if err := prepareProphecy(p); err != nil {
		return nil, err
	}
	found, err := s.pr.Update(ctx, p)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceProphecy, p.ID, nil)
	return s.Get(ctx, p.ID)
}

func (s *prophecyService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.pr.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceProphecy, id, nil)
	return nil
}
