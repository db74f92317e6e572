package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type FamilyService interface {
	List(ctx context.Context, page transfer.Page) ([]*models.Family, error)
	Get(ctx context.Context, id int64) (*models.Family, error)
	Create(ctx context.Context, actor Actor, f *models.Family) (*models.Family, error)
	Update(ctx context.Context, actor Actor, f *models.Family) (*models.Family, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type familyService struct {
	fa repository.FamilyRepository
	al ActivityService
}

func NewFamilyService(fa repository.FamilyRepository, al ActivityService) FamilyService {
	return &familyService{fa: fa, al: al}
}

func (s *familyService) List(ctx context.Context, page transfer.Page) ([]*models.Family, error) {
	return s.fa.List(ctx, page)
}

func (s *familyService) Get(ctx context.Context, id int64) (*models.Family, error) {
	f, err := s.fa.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *familyService) Create(ctx context.Context, actor Actor, f *models.Family) (*models.Family, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := required("name", f.Name); err != nil {
		return nil, err
	}
	id, err := s.fa.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceFollowers, id, models.Details{"family": f.Name})
	return s.Get(ctx, id)
}

func (s *familyService) Update(ctx context.Context, actor Actor, f *models.Family) (*models.Family, error) {
	f.Name = strings.TrimSpace(f.Name)
	if err := required("name", f.Name); err != nil {
		return nil, err
	}
	found, err := s.fa.Update(ctx, f)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceFollowers, f.ID, models.Details{"family": f.Name})
	return s.Get(ctx, f.ID)
}

// Remove deletes the family. Members keep their records and lose the link.
func (s *familyService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.fa.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceFollowers, id, models.Details{"kind": "family"})
	return nil
}
