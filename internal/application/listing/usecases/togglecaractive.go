package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/listing/dto"
	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// ToggleCarActiveUseCase is the moderation switch: it publishes a pending
// listing or takes a published one down.
type ToggleCarActiveUseCase struct {
	carRepo listing.CarRepository
	clock   biztime.Clock
	logger  logger.Interface
}

func NewToggleCarActiveUseCase(carRepo listing.CarRepository, clock biztime.Clock, logger logger.Interface) *ToggleCarActiveUseCase {
	return &ToggleCarActiveUseCase{carRepo: carRepo, clock: clock, logger: logger}
}

func (uc *ToggleCarActiveUseCase) Execute(ctx context.Context, carID uint) (*dto.CarDTO, error) {
	car, err := uc.carRepo.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, listing.ErrCarNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyCarNotFound)
		}
		uc.logger.Errorw("failed to get car", "car_id", carID, "error", err)
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	active, err := car.ToggleActive(uc.clock.Now())
	if err != nil {
		return nil, apperrors.NewNotFoundError(i18n.KeyCarNotFound)
	}
	if err := uc.carRepo.Update(ctx, car); err != nil {
		uc.logger.Errorw("failed to update car", "car_id", carID, "error", err)
		return nil, fmt.Errorf("failed to update car: %w", err)
	}

	uc.logger.Infow("car moderation toggled", "car_id", carID, "is_active", active)
	return dto.ToCarDTO(car), nil
}
