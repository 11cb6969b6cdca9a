package adapters

import (
	"context"
	"errors"

	"github.com/autopro-kz/autopro/internal/domain/user"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
)

// ErrUserInactive is returned for users that were deleted or deactivated after
// their token was issued.
var ErrUserInactive = errors.New("user is not active")

// UserRoleChecker resolves the stored role of a token holder so role changes
// apply without waiting for the token to expire.
type UserRoleChecker struct {
	userRepo user.Repository
}

func NewUserRoleChecker(userRepo user.Repository) *UserRoleChecker {
	return &UserRoleChecker{userRepo: userRepo}
}

func (a *UserRoleChecker) CurrentRole(ctx context.Context, userID uint) (vo.Role, error) {
	u, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", ErrUserInactive
		}
		return "", err
	}
	if u == nil || !u.IsActive() {
		return "", ErrUserInactive
	}
	return u.Role(), nil
}

func (a *UserRoleChecker) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	role, err := a.CurrentRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return role.IsAdmin(), nil
}
