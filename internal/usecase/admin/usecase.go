package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"

	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/user"
)

const (
	DefaultUserLimit = 50
	MaxUserLimit     = 200
)

var ErrInvalidRole = errors.New("role must be farmer, microfinance or admin")

type UserDTO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"date_joined"`
}

type UserCounts struct {
	Farmers      int64 `json:"farmers"`
	Microfinance int64 `json:"microfinance"`
}

type ApplicationCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type StatsDTO struct {
	Users        UserCounts        `json:"users"`
	Applications ApplicationCounts `json:"applications"`
}

type Usecase struct {
	users user.Repository
	apps  application.Repository
}

func NewUsecase(users user.Repository, apps application.Repository) *Usecase {
	return &Usecase{users: users, apps: apps}
}

// ListUsers lists accounts owning a role profile, filtered by role when set.
func (u *Usecase) ListUsers(ctx context.Context, role string, limit int) ([]UserDTO, error) {
	var r user.Role
	if strings.TrimSpace(role) != "" {
		parsed, ok := user.ParseRole(role)
		if !ok {
			return nil, ErrInvalidRole
		}
		r = parsed
	}
	if limit <= 0 {
		limit = DefaultUserLimit
	}
	limit = min(limit, MaxUserLimit)

	us, err := u.users.ListWithProfile(ctx, r, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(us, func(x user.User, _ int) UserDTO {
		return UserDTO{
			ID:        x.ID,
			Email:     x.Email,
			Name:      x.FirstName,
			Role:      string(x.Role()),
			IsStaff:   x.IsStaff,
			CreatedAt: x.CreatedAt,
		}
	}), nil
}

func (u *Usecase) Stats(ctx context.Context) (*StatsDTO, error) {
	var out StatsDTO
	var err error
	if out.Users.Farmers, err = u.users.CountByRole(ctx, user.RoleFarmer); err != nil {
		return nil, err
	}
	if out.Users.Microfinance, err = u.users.CountByRole(ctx, user.RoleMicrofinance); err != nil {
		return nil, err
	}
	if out.Applications.Pending, err = u.apps.CountByStatus(ctx, application.StatusPending); err != nil {
		return nil, err
	}
	if out.Applications.Approved, err = u.apps.CountByStatus(ctx, application.StatusApproved); err != nil {
		return nil, err
	}
	if out.Applications.Rejected, err = u.apps.CountByStatus(ctx, application.StatusRejected); err != nil {
		return nil, err
	}
	return &out, nil
}
