package service

import (
	"context"
	"regexp"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
)

type SettingsService interface {
	List(ctx context.Context) ([]*models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	UpdateSetting(ctx context.Context, actor Actor, key, value string) (*models.Setting, error)
}

type settingsService struct {
	sr repository.SettingsRepository
	al ActivityService
}

func NewSettingsService(sr repository.SettingsRepository, al ActivityService) SettingsService {
	return &settingsService{
		sr: sr,
		al: al,
	}
}

var settingKey = regexp.MustCompile(`^[a-z][a-z0-9_.]{0,63}$`)

func (s *settingsService) List(ctx context.Context) ([]*models.Setting, error) {
	return s.sr.List(ctx)
}

func (s *settingsService) Get(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.sr.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrNotFound
	}
	return setting, nil
}

func (s *settingsService) UpdateSetting(ctx context.Context, actor Actor, key, value string) (*models.Setting, error) {
	if !settingKey.MatchString(key) {
		return nil, invalid("key", "must be lowercase letters, digits, dots or underscores")
	}

	setting := &models.Setting{Key: key, Value: value, UpdatedBy: ptr(actor.UserID)}
	if err := s.sr.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceSettings, 0, models.Details{"key": key})
	return s.Get(ctx, key)
}
