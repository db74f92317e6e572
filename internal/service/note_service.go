package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type NoteService interface {
	List(ctx context.Context, category string, page transfer.Page) ([]*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
	Create(ctx context.Context, actor Actor, n *models.Note) (*models.Note, error)
	Update(ctx context.Context, actor Actor, n *models.Note) (*models.Note, error)
	Remove(ctx context.Context, actor Actor, id int64) error
}

type noteService struct {
	nr repository.NoteRepository
	al ActivityService
}

func NewNoteService(nr repository.NoteRepository, al ActivityService) NoteService {
	return &noteService{nr: nr, al: al}
}

func (s *noteService) List(ctx context.Context, category string, page transfer.Page) ([]*models.Note, error) {
	return s.nr.List(ctx, category, page)
}

func (s *noteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	n, err := s.nr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

// prepareNote trims fields and sanitizes the rich-text body.
func prepareNote(n *models.Note) error {
	n.Title = strings.TrimSpace(n.Title)
	n.Category = strings.TrimSpace(n.Category)
	if err := required("title", n.Title); err != nil {
		return err
	}
	n.Content = utils.SanitizeHTML(n.Content)
	return nil
}

func (s *noteService) Create(ctx context.Context, actor Actor, n *models.Note) (*models.Note, error) {
	if err := prepareNote(n); err != nil {
		return nil, err
	}
	n.CreatedBy = ptr(actor.UserID)
	id, err := s.nr.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceNotes, id, models.Details{"title": n.Title})
	return s.Get(ctx, id)
}

func (s *noteService) Update(ctx context.Context, actor Actor, n *models.Note) (*models.Note, error) {
	if err := prepareNote(n); err != nil {
		return nil, err
	}
	found, err := s.nr.Update(ctx, n)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceNotes, n.ID, models.Details{"title": n.Title})
	return s.Get(ctx, n.ID)
}

func (s *noteService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.nr.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceNotes, id, nil)
	return nil
}
