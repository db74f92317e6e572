package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type FollowerService interface {
	List(ctx context.Context, filter repository.FollowerFilter, page transfer.Page) ([]*models.Follower, error)
	Get(ctx context.Context, id int64) (*models.Follower, error)
	Create(ctx context.Context, actor Actor, f *models.Follower) (*models.Follower, error)
	Update(ctx context.Context, actor Actor, f *models.Follower) (*models.Follower, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type followerService struct {
	fr repository.FollowerRepository
	fa repository.FamilyRepository
	al ActivityService
}

func NewFollowerService(fr repository.FollowerRepository, fa repository.FamilyRepository, al ActivityService) FollowerService {
	return &followerService{fr: fr, fa: fa, al: al}
}

func (s *followerService) List(ctx context.Context, filter repository.FollowerFilter, page transfer.Page) ([]*models.Follower, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.fr.List(ctx, filter, page)
}

func (s *followerService) Get(ctx context.Context, id int64) (*models.Follower, error) {
	f, err := s.fr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrNotFound
	}
	return f, nil
}

func (s *followerService) validate(ctx context.Context, f *models.Follower) error {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	if err := required("first_name", f.FirstName); err != nil {
		return err
	}
	if f.Email != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			return invalid("email", "is not a valid address")
		}
	}
	if f.FamilyID != nil {
		family, err := s.fa.GetByID(ctx, *f.FamilyID)
		if err != nil {
			return err
		}
		if family == nil {
			return invalid("family_id", "family does not exist")
		}
	}
	return nil
}

func (s *followerService) Create(ctx context.Context, actor Actor, f *models.Follower) (*models.Follower, error) {
	if err := s.validate(ctx, f); err != nil {
		return nil, err
	}
	id, err := s.fr.Create(ctx, f)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceFollowers, id,
		models.Details{"name": strings.TrimSpace(f.FirstName + " " + f.LastName)})
	return s.Get(ctx, id)
}

func (s *followerService) Update(ctx context.Context, actor Actor, f *models.Follower) (*models.Follower, error) {
	if err := s.validate(ctx, f); err != nil {
		return nil, err
	}
	found, err := s.fr.Update(ctx, f)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceFollowers, f.ID, nil)
	return s.Get(ctx, f.ID)
}

func (s *followerService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.fr.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceFollowers, id, nil)
	return nil
}
