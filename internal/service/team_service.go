package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
)

type TeamService interface {
	List(ctx context.Context) ([]*models.TeamMember, error)
	Get(ctx context.Context, id int64) (*models.TeamMember, error)
	Create(ctx context.Context, actor Actor, m *models.TeamMember) (*models.TeamMember, error)
	Update(ctx context.Context, actor Actor, m *models.TeamMember) (*models.TeamMember, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type teamService struct {
	tr repository.TeamRepository
	al ActivityService
}

func NewTeamService(tr repository.TeamRepository, al ActivityService) TeamService {
	return &teamService{tr: tr, al: al}
}

func (s *teamService) List(ctx context.Context) ([]*models.TeamMember, error) {
	return s.tr.List(ctx)
}

func (s *teamService) Get(ctx context.Context, id int64) (*models.TeamMember, error) {
	m, err := s.tr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func prepareMember(m *models.TeamMember) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Position = strings.TrimSpace(m.Position)
	if err := required("name", m.Name); err != nil {
		return err
	}
	return required("position", m.Position)
}

func (s *teamService) Create(ctx context.Context, actor Actor, m *models.TeamMember) (*models.TeamMember, error) {
	if err := prepareMember(m); err != nil {
		return nil, err
	}
	id, err := s.tr.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceTeam, id, models.Details{"name": m.Name})
	return s.Get(ctx, id)
}

func (s *teamService) Update(ctx context.Context, actor Actor, m *models.TeamMember) (*models.TeamMember, error) {
	if err := prepareMember(m); err != nil {
		return nil, err
	}
	found, err := s.tr.Update(ctx, m)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceTeam, m.ID, models.Details{"name": m.Name})
	return s.Get(ctx, m.ID)
}

func (s *teamService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.tr.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceTeam, id, nil)
	return nil
}
