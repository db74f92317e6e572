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

type UserService interface {
	GetUserInfo(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, page transfer.Page) ([]*models.User, error)
	Create(ctx context.Context, actor Actor, uc *transfer.UserCreation) (*models.User, error)
	Update(ctx context.Context, actor Actor, id int64, uu *transfer.UserUpdate) (*models.User, error)
	RemoveUser(ctx context.Context, actor Actor, userID int64) error
}

type userService struct {
	u  repository.UserRepository
	al ActivityService
}

func NewUserService(u repository.UserRepository, al ActivityService) UserService {
	return &userService{
		u:  u,
		al: al,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, id int64) (*models.User, error) {
	user, found, err := s.u.GetByID(ctx, id)
	if err := notFoundUnless(found, err); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page transfer.Page) ([]*models.User, error) {
	return s.u.List(ctx, page)
}

func hashOrInvalid(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if utils.IsPasswordPolicyError(err) {
		return "", invalid("password", err.Error())
	}
	return hash, err
}

// canGrant reports whether actor may give a user the role target, moving
// them away from current. Only super admins touch the super_admin role and
// nobody changes their own role.
func canGrant(actor Actor, subjectID int64, current, target string) error {
	if !models.IsValidRole(target) {
		return invalid("role", "unknown role")
	}
	if subjectID != 0 && subjectID == actor.UserID && current != target {
		return fmt.Errorf("%w: cannot change your own role", ErrForbidden)
	}
	if (target == models.RoleSuperAdmin || current == models.RoleSuperAdmin) &&
		current != target && actor.Role != models.RoleSuperAdmin {
		return fmt.Errorf("%w: only a super admin can grant or revoke super_admin", ErrForbidden)
	}
	return nil
}

func (s *userService) Create(ctx context.Context, actor Actor, uc *transfer.UserCreation) (*models.User, error) {
	email := normalizeEmail(uc.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := required("name", uc.Name); err != nil {
		return nil, err
	}
	role := uc.Role
	if role == "" {
		role = models.RoleMember
	}
	if err := canGrant(actor, 0, "", role); err != nil {
		return nil, err
	}

	hash, err := hashOrInvalid(uc.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: role, Name: strings.TrimSpace(uc.Name)}
	id, err := s.u.Create(ctx, user)
	if err != nil {
		return nil, conflictOr(err)
	}
	user.ID = id

	s.al.Log(ctx, actor, models.ActionCreate, models.ResourceUsers, id, models.Details{"email": email, "role": role})
	return s.GetUserInfo(ctx, id)
}

func (s *userService) Update(ctx context.Context, actor Actor, id int64, uu *transfer.UserUpdate) (*models.User, error) {
	user, err := s.GetUserInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := []string{}
	if uu.Email != nil {
		email := normalizeEmail(*uu.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
		changed = append(changed, "email")
	}
	if uu.Name != nil {
		if err := required("name", *uu.Name); err != nil {
			return nil, err
		}
		user.Name = strings.TrimSpace(*uu.Name)
		changed = append(changed, "name")
	}
	if uu.Role != nil {
		if err := canGrant(actor, id, user.Role, *uu.Role); err != nil {
			return nil, err
		}
		user.Role = *uu.Role
		changed = append(changed, "role")
	}
	if uu.Password != nil {
		hash, err := hashOrInvalid(*uu.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		changed = append(changed, "password")
	}

	if err := s.u.Update(ctx, user); err != nil {
		return nil, conflictOr(err)
	}

	s.al.Log(ctx, actor, models.ActionUpdate, models.ResourceUsers, id, models.Details{"fields": changed})
	return s.GetUserInfo(ctx, id)
}

func (s *userService) RemoveUser(ctx context.Context, actor Actor, userID int64) error {
	if actor.UserID == userID {
		return invalid("id", "cannot delete your own account")
	}
	if _, err := s.GetUserInfo(ctx, userID); err != nil {
		return err
	}
	if err := s.u.Remove(ctx, userID); err != nil {
		return err
	}
	s.al.Log(ctx, actor, models.ActionDelete, models.ResourceUsers, userID, nil)
	return nil
}
