package service

import (
	"context"
	"log/slog"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

type ActivityService interface {
	// Log records an entry. Failures are logged and swallowed.
	Log(ctx context.Context, actor Actor, action string, resource models.Resource, resourceID int64, details models.Details)
	List(ctx context.Context, filter repository.ActivityFilter, page transfer.Page) ([]*models.ActivityLog, error)
}

type activityService struct {
	ar repository.ActivityLogRepository
}

func NewActivityService(ar repository.ActivityLogRepository) ActivityService {
	return &activityService{ar: ar}
}

func (s *activityService) Log(ctx context.Context, actor Actor, action string, resource models.Resource, resourceID int64, details models.Details) {
	entry := &models.ActivityLog{
		Action:       action,
		ResourceType: string(resource),
		Details:      details,
		IPAddress:    actor.IP,
	}
	if actor.UserID != 0 {
		entry.UserID = ptr(actor.UserID)
	}
	if resourceID != 0 {
		entry.ResourceID = ptr(resourceID)
	}

	if _, err := s.ar.Create(ctx, entry); err != nil {
		slog.Error("failed to write activity log",
			"action", action, "resource", resource, "resource_id", resourceID, "error", err)
	}
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityFilter, page transfer.Page) ([]*models.ActivityLog, error) {
	return s.ar.List(ctx, filter, page)
}
