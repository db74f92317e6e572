package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/gracechapel/ministry-api/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, req *transfer.RegisterRequest, ip string) (*transfer.AuthResponse, error)
	Login(ctx context.Context, req *transfer.LoginRequest, ip string) (*transfer.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	u      repository.UserRepository
	tokens TokenService
	al     ActivityService
}

func NewAuthService(u repository.UserRepository, tokens TokenService, al ActivityService) AuthService {
	return &authService{
		u:      u,
		tokens: tokens,
		al:     al,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// Register creates a visitor account and signs it in.
func (s *authService) Register(ctx context.Context, req *transfer.RegisterRequest, ip string) (*transfer.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := required("name", req.Name); err != nil {
		return nil, err
	}

	hash, err := hashOrInvalid(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleVisitor,
		Name:         strings.TrimSpace(req.Name),
	}
	id, err := s.u.Create(ctx, user)
	if err != nil {
		return nil, conflictOr(err)
	}
	user.ID = id

	s.al.Log(ctx, Actor{UserID: id, IP: ip}, models.ActionCreate, models.ResourceUsers, id, models.Details{"via": "register"})
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, req *transfer.LoginRequest, ip string) (*transfer.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, found, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found || !utils.CheckPassword(req.Password, user.PasswordHash) {
		slog.Info("failed login", "email", email, "ip", ip)
		return nil, ErrInvalidCredentials
	}

	s.al.Log(ctx, Actor{UserID: user.ID, IP: ip}, models.ActionLogin, models.ResourceUsers, user.ID, nil)
	return s.respond(user)
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, found, err := s.u.GetByID(ctx, userID)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) respond(user *models.User) (*transfer.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &transfer.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
