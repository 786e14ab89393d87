package service

import (
	"context"
	"net/mail"
	"strings"

	"orgdesk/internal/domain"
	"orgdesk/internal/repo"
	"orgdesk/pkg/apperrors"
	"orgdesk/pkg/utils"
)

type UserService struct {
	users *repo.UserRepo
}

func NewUserService(users *repo.UserRepo) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal("list users failed", err)
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return u, nil
}

// UserPatch 指针字段区分“没传”和“传了要改”
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
	Role      *string
}

func (s *UserService) Update(ctx context.Context, callerID string, callerRole domain.Role, id string, p UserPatch) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok, reason := AllowUserUpdate(callerID, callerRole, u); !ok {
		return nil, apperrors.Forbidden(reason)
	}

	if p.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*p.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.BadInput("invalid email address")
		}
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, apperrors.Internal("lookup email failed", err)
			}
			if other != nil {
				return nil, apperrors.Conflict("email is already registered")
			}
			u.Email = email
		}
	}
	if p.FirstName != nil {
		if strings.TrimSpace(*p.FirstName) == "" {
			return nil, apperrors.BadInput("first name must not be empty")
		}
		u.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		if strings.TrimSpace(*p.LastName) == "" {
			return nil, apperrors.BadInput("last name must not be empty")
		}
		u.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Password != nil {
		if *p.Password == "" {
			return nil, apperrors.BadInput("password must not be empty")
		}
		u.PasswordHash = utils.HashPassword(*p.Password)
	}
	if p.Role != nil {
		role := domain.Role(*p.Role)
		if !role.Valid() {
			return nil, apperrors.BadInput("unknown role")
		}
		if ok, reason := AllowRoleChange(callerRole, u, role); !ok {
			return nil, apperrors.Forbidden(reason)
		}
		u.Role = role
	}

	if err := s.users.Update(ctx, u); err != nil {
		if isDupKey(err) {
			return nil, apperrors.Conflict("email is already registered")
		}
		return nil, apperrors.Internal("update user failed", err)
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, callerID string, callerRole domain.Role, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ok, reason := AllowUserDelete(callerID, callerRole, u); !ok {
		return apperrors.Forbidden(reason)
	}
	if err := s.users.DeleteCascade(ctx, u); err != nil {
		return apperrors.Internal("delete user failed", err)
	}
	return nil
}
