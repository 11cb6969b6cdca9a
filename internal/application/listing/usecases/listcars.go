package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/listing/dto"
	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type ListCarsQuery struct {
	IsActive *bool
}

// ListCarsUseCase serves both the public catalog (active only) and the
// moderation queue.
type ListCarsUseCase struct {
	carRepo listing.CarRepository
	logger  logger.Interface
}

func NewListCarsUseCase(carRepo listing.CarRepository, logger logger.Interface) *ListCarsUseCase {
	return &ListCarsUseCase{carRepo: carRepo, logger: logger}
}

func (uc *ListCarsUseCase) Execute(ctx context.Context, query ListCarsQuery) ([]*dto.CarDTO, error) {
	cars, err := uc.carRepo.List(ctx, listing.CarFilter{IsActive: query.IsActive})
	if err != nil {
		uc.logger.Errorw("failed to list cars", "error", err)
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	result := mapper.MapSlice(cars, dto.ToCarDTO)
	if result == nil {
		result = []*dto.CarDTO{}
	}
	return result, nil
}
