package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/autopro-kz/autopro/internal/application/user/dto"
	"github.com/autopro-kz/autopro/internal/domain/user"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type RegisterCommand struct {
	Login       string
	Name        string
	PhoneNumber *string
	Password    string
}

// RegisterUseCase creates owner accounts. Admins are provisioned out of band.
type RegisterUseCase struct {
	userRepo user.Repository
	hasher   user.PasswordHasher
	clock    biztime.Clock
	logger   logger.Interface
}

func NewRegisterUseCase(
	userRepo user.Repository,
	hasher user.PasswordHasher,
	clock biztime.Clock,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.UserDTO, error) {
	login, err := vo.NewLogin(cmd.Login)
	if err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}
	password, err := vo.NewPassword(cmd.Password)
	if err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}

	exists, err := uc.userRepo.ExistsByLogin(ctx, login.String())
	if err != nil {
		uc.logger.Errorw("failed to check login", "error", err)
		return nil, fmt.Errorf("failed to check login: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(i18n.KeyUserExists)
	}

	phone := cmd.PhoneNumber
	if phone != nil && strings.TrimSpace(*phone) == "" {
		phone = nil
	}

	now := uc.clock.Now()
	newUser, err := user.NewUser(login, cmd.Name, phone, vo.RoleOwner, now)
	if err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}
	if err := newUser.SetPassword(password, uc.hasher, now); err != nil {
		uc.logger.Errorw("failed to set password", "error", err)
		return nil, err
	}

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError(i18n.KeyUserExists)
		}
		uc.logger.Errorw("failed to create user", "login", login.String(), "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Infow("user registered", "user_id", newUser.ID(), "login", login.String())
	return dto.ToUserDTO(newUser), nil
}
