package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/listing/dto"
	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type ListMyCarsUseCase struct {
	carRepo listing.CarRepository
	logger  logger.Interface
}

func NewListMyCarsUseCase(carRepo listing.CarRepository, logger logger.Interface) *ListMyCarsUseCase {
	return &ListMyCarsUseCase{carRepo: carRepo, logger: logger}
}

func (uc *ListMyCarsUseCase) Execute(ctx context.Context, ownerID uint) ([]*dto.CarDTO, error) {
	cars, err := uc.carRepo.ListByAuthor(ctx, ownerID)
	if err != nil {
		uc.logger.Errorw("failed to list cars", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	result := mapper.MapSlice(cars, dto.ToCarDTO)
	if result == nil {
		result = []*dto.CarDTO{}
	}
	return result, nil
}
