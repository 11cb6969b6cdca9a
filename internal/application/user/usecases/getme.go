package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/user/dto"
	"github.com/autopro-kz/autopro/internal/domain/user"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type GetMeUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetMeUseCase(userRepo user.Repository, logger logger.Interface) *GetMeUseCase {
	return &GetMeUseCase{userRepo: userRepo, logger: logger}
}

func (uc *GetMeUseCase) Execute(ctx context.Context, userID uint) (*dto.UserDTO, error) {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError(i18n.KeyUnauthorized)
		}
		uc.logger.Errorw("failed to get user", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return dto.ToUserDTO(u), nil
}
