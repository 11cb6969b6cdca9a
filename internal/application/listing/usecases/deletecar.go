package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type DeleteCarCommand struct {
	CarID   uint
	UserID  uint
	IsAdmin bool
}

// DeleteCarUseCase soft-deletes a listing so it no longer counts toward the
// owner's plan limit.
type DeleteCarUseCase struct {
	carRepo listing.CarRepository
	clock   biztime.Clock
	logger  logger.Interface
}

func NewDeleteCarUseCase(carRepo listing.CarRepository, clock biztime.Clock, logger logger.Interface) *DeleteCarUseCase {
	return &DeleteCarUseCase{carRepo: carRepo, clock: clock, logger: logger}
}

func (uc *DeleteCarUseCase) Execute(ctx context.Context, cmd DeleteCarCommand) error {
	car, err := uc.carRepo.GetByID(ctx, cmd.CarID)
	if err != nil {
		if errors.Is(err, listing.ErrCarNotFound) {
			return apperrors.NewNotFoundError(i18n.KeyCarNotFound)
		}
		uc.logger.Errorw("failed to get car", "car_id", cmd.CarID, "error", err)
		return fmt.Errorf("failed to get car: %w", err)
	}

	if !car.CanBeManagedBy(cmd.UserID, cmd.IsAdmin) {
		uc.logger.Warnw("unauthorized car delete attempt", "car_id", cmd.CarID, "user_id", cmd.UserID)
		return apperrors.NewForbiddenError(i18n.KeyNotAuthorized)
	}

	car.SoftDelete(uc.clock.Now())
	if err := uc.carRepo.Update(ctx, car); err != nil {
		uc.logger.Errorw("failed to delete car", "car_id", cmd.CarID, "error", err)
		return fmt.Errorf("failed to delete car: %w", err)
	}

	uc.logger.Infow("car deleted", "car_id", cmd.CarID, "user_id", cmd.UserID)
	return nil
}
