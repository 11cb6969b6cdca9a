package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type CarRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCarRepository(db *gorm.DB, logger logger.Interface) *CarRepository {
	return &CarRepository{db: db, logger: logger}
}

var _ listing.CarRepository = (*CarRepository)(nil)

func (r *CarRepository) Create(ctx context.Context, car *listing.Car) error {
	model := mappers.CarToModel(car)

	if err := db.GetTxFromContext(ctx, r.db).Select("*").Omit("id").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	car.SetID(model.ID)
	return nil
}

func (r *CarRepository) Update(ctx context.Context, car *listing.Car) error {
	model := mappers.CarToModel(car)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.CarModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"description":   model.Description,
			"price_per_day": model.PricePerDay,
			"release_year":  model.ReleaseYear,
			"is_active":     model.IsActive,
			"updated_at":    model.UpdatedAt,
			"delete_date":   model.DeleteDate,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update car: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return listing.ErrCarNotFound
	}
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, id uint) (*listing.Car, error) {
	var model models.CarModel

	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.NotDeleted()).
		First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, listing.ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return mappers.CarToDomain(&model), nil
}

func (r *CarRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*listing.Car, error) {
	var carModels []*models.CarModel

	if err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.NotDeleted()).
		Where("author_id = ?", authorID).
		Order("id DESC").
		Find(&carModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return mapper.MapSlice(carModels, mappers.CarToDomain), nil
}

func (r *CarRepository) List(ctx context.Context, filter listing.CarFilter) ([]*listing.Car, error) {
	var carModels []*models.CarModel

	query := db.GetTxFromContext(ctx, r.db).Scopes(db.NotDeleted())
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if err := query.Order("id DESC").Find(&carModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return mapper.MapSlice(carModels, mappers.CarToDomain), nil
}

func (r *CarRepository) CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.CarModel{}).
		Scopes(db.NotDeleted()).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}
