package service

import (
	"log/slog"
	"time"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type TokenService interface {
	Issue(user *models.User) (string, time.Time, error)
	// Verify returns nil for any token that is not valid and current.
	Verify(token string) *transfer.CustomClaims
}

type tokenService struct {
	secret string
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: secret, ttl: ttl}
}

func (s *tokenService) Issue(user *models.User) (string, time.Time, error) {
	payload := transfer.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
	}
	token, err := utils.GenerateToken(s.secret, payload, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now().Add(s.ttl), nil
}

func (s *tokenService) Verify(token string) *transfer.CustomClaims {
	if token == "" {
		return nil
	}
	claims, err := utils.ValidateToken(s.secret, token)
	if err != nil {
		slog.Debug("token rejected", "error", err)
		return nil
	}
	return claims
}
