package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type SocialAccountService interface {
	List(ctx context.Context, platform string, page transfer.Page) ([]*models.SocialAccount, error)
	Get(ctx context.Context, id int64) (*models.SocialAccount, error)
	Create(ctx context.Context, actor Actor, ac *transfer.AccountCreation) (*models.SocialAccount, error)
	Update(ctx context.Context, actor Actor, id int64, au *transfer.AccountUpdate) (*models.SocialAccount, error)
	// Delete removes the account, or deactivates it when posts were
	// already published through it. It reports whether it archived.
	Delete(ctx context.Context, actor Actor, id int64) (bool, error)
	Credentials(account *models.SocialAccount) (models.AccountCredentials, error)
}

type socialAccountService struct {
	ac  repository.SocialAccountRepository
	pp  repository.PostPlatformRepository
	al  ActivityService
	key []byte
}

func NewSocialAccountService(
	ac repository.SocialAccountRepository,
	pp repository.PostPlatformRepository,
	al ActivityService,
	encryptionKey string) SocialAccountService {
	return &socialAccountService{
		ac:  ac,
		pp:  pp,
		al:  al,
		key: []byte(encryptionKey),
	}
}

func (s *socialAccountService) List(ctx context.Context, platform string, page transfer.Page) ([]*models.SocialAccount, error) {
	if platform != "" && !models.IsValidPlatform(platform) {
		return nil, invalid("platform", "unknown platform")
	}
	return s.ac.List(ctx, platform, page)
}

func (s *socialAccountService) Get(ctx context.Context, id int64) (*models.SocialAccount, error) {
	account, err := s.ac.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	return account, nil
}

func (s *socialAccountService) Create(ctx context.Context, actor Actor, ac *transfer.AccountCreation) (*models.SocialAccount, error) {
	platform := strings.ToLower(strings.TrimSpace(ac.Platform))
	if !models.IsValidPlatform(platform) {
		return nil, invalid("platform", "unknown platform")
	}
	if err := required("account_name", ac.AccountName); err != nil {
		return nil, err
	}

	sealed, err := utils.EncryptJSON(models.AccountCredentials{
		AccessToken:  ac.AccessToken,
		RefreshToken: ac.RefreshToken,
		ExpiresAt:    ac.ExpiresAt,
		PageID:       ac.PageID,
		ChatID:       ac.ChatID,
	}, s.key)
	if err != nil {
		return nil, fmt.Errorf("encrypt credentials: %w", err)
	}

	account := &models.SocialAccount{
		Platform:    platform,
		AccountName: strings.TrimSpace(ac.AccountName),
		ExternalID:  ac.ExternalID,
		Credentials: sealed,
		Status:      models.AccountStatusActive,
		CreatedBy:   ptr(actor.UserID),
	}
	id, err := s.ac.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceSocialMediaAccounts, id,
		models.Details{"platform": platform, "account_name": account.AccountName})
	return s.Get(ctx, id)
}

func (s *socialAccountService) Update(ctx context.Context, actor Actor, id int64, au *transfer.AccountUpdate) (*models.SocialAccount, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if au.AccountName != nil {
		if err := required("account_name", *au.AccountName); err != nil {
			return nil, err
		}
		account.AccountName = strings.TrimSpace(*au.AccountName)
	}
	if au.ExternalID != nil {
		account.ExternalID = *au.ExternalID
	}
	if au.Status != nil {
		if *au.Status != models.AccountStatusActive && *au.Status != models.AccountStatusInactive {
			return nil, invalid("status", "must be active or inactive")
		}
		account.Status = *au.Status
	}

	if au.AccessToken != nil || au.RefreshToken != nil || au.ExpiresAt != nil || au.PageID != nil || au.ChatID != nil {
		creds, err := s.Credentials(account)
		if err != nil {
			return nil, err
		}
		setIf(&creds.AccessToken, au.AccessToken)
		setIf(&creds.RefreshToken, au.RefreshToken)
		setIf(&creds.PageID, au.PageID)
		setIf(&creds.ChatID, au.ChatID)
		if au.ExpiresAt != nil {
			creds.ExpiresAt = au.ExpiresAt
		}

		sealed, err := utils.EncryptJSON(creds, s.key)
		if err != nil {
			return nil, fmt.Errorf("encrypt credentials: %w", err)
		}
		account.Credentials = sealed
	}

	if err := s.ac.Update(ctx, account); err != nil {
		return nil, err
	}

	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceSocialMediaAccounts, id, nil)
	return s.Get(ctx, id)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *socialAccountService) Delete(ctx context.Context, actor Actor, id int64) (bool, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	published, err := s.pp.CountPublishedByAccount(ctx, id)
	if err != nil {
		return false, err
	}

	details := models.Details{"platform": account.Platform, "account_name": account.AccountName}
	if published > 0 {
		if err := s.ac.SetStatus(ctx, id, models.AccountStatusInactive); err != nil {
			return false, err
		}
		s.al.Log(ctx, actor, models.ActionArchive, models.ResourceSocialMediaAccounts, id, details)
		return true, nil
	}

	if err := s.ac.Remove(ctx, id); err != nil {
		return false, err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceSocialMediaAccounts, id, details)
	return false, nil
}

func (s *socialAccountService) Credentials(account *models.SocialAccount) (models.AccountCredentials, error) {
	var creds models.AccountCredentials
	if account.Credentials == "" {
		return creds, nil
	}
	if err := utils.DecryptJSON(account.Credentials, s.key, &creds); err != nil {
		return creds, fmt.Errorf("decrypt credentials for account %d: %w", account.ID, err)
	}
	return creds, nil
}
