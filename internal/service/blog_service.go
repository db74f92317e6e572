package service

import (
	"context"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type BlogService interface {
	List(ctx context.Context, status string, page transfer.Page) ([]*models.Blog, error)
	Get(ctx context.Context, id int64) (*models.Blog, error)
	Create(ctx context.Context, actor Actor, b *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, actor Actor, b *models.Blog) (*models.Blog, error)
	Remove(ctx context.Context, actor Actor, id int64) error

	ListPublished(ctx context.Context, page transfer.Page) ([]*models.Blog, error)
	// GetPublished returns a published blog with its content rendered to HTML.
	GetPublished(ctx context.Context, slug string) (*models.Blog, error)
}

type blogService struct {
	br repository.BlogRepository
	al ActivityService
}

func NewBlogService(br repository.BlogRepository, al ActivityService) BlogService {
	return &blogService{br: br, al: al}
}

func (s *blogService) List(ctx context.Context, status string, page transfer.Page) ([]*models.Blog, error) {
	return s.br.List(ctx, status, page)
}

func (s *blogService) Get(ctx context.Context, id int64) (*models.Blog, error) {
	b, err := s.br.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func prepareBlog(b *models.Blog) error {
	b.Title = strings.TrimSpace(b.Title)
	if err := required("title", b.Title); err != nil {
		return err
	}

	if strings.TrimSpace(b.Slug) == "" {
		b.Slug = b.Title
	}
	b.Slug = utils.Slugify(b.Slug)
	if b.Slug == "" {
		return invalid("slug", "must contain letters or digits")
	}

	switch b.Status {
	case "":
		b.Status = models.BlogStatusDraft
	case models.BlogStatusDraft, models.BlogStatusPublished:
	default:
		return invalid("status", "must be draft or published")
	}
	if b.Status == models.BlogStatusPublished && b.PublishedAt == nil {
		b.PublishedAt = ptr(now())
	}
	return nil
}

func (s *blogService) Create(ctx context.Context, actor Actor, b *models.Blog) (*models.Blog, error) {
	if err := prepareBlog(b); err != nil {
		return nil, err
	}
	b.CreatedBy = ptr(actor.UserID)
	id, err := s.br.Create(ctx, b)
	if err != nil {
		return nil, conflictOr(err)
	}
	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceBlogs, id, models.Details{"slug": b.Slug, "status": b.Status})
	return s.Get(ctx, id)
}

func (s *blogService) Update(ctx context.Context, actor Actor, b *models.Blog) (*models.Blog, error) {
	if err := prepareBlog(b); err != nil {
		return nil, err
	}
	found, err := s.br.Update(ctx, b)
	if err := notFoundUnless(found, conflictOr(err)); err != nil {
		return nil, err
	}
	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceBlogs, b.ID, models.Details{"slug": b.Slug, "status": b.Status})
	return s.Get(ctx, b.ID)
}

func (s *blogService) Remove(ctx context.Context, actor Actor, id int64) error {
	found, err := s.br.Remove(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceBlogs, id, nil)
	return nil
}

func (s *blogService) ListPublished(ctx context.Context, page transfer.Page) ([]*models.Blog, error) {
	return s.br.List(ctx, models.BlogStatusPublished, page)
}

func (s *blogService) GetPublished(ctx context.Context, slug string) (*models.Blog, error) {
	b, err := s.br.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if b == nil || b.Status != models.BlogStatusPublished {
		return nil, ErrNotFound
	}
	b.Content = utils.RenderMarkdown(b.Content)
	return b, nil
}
