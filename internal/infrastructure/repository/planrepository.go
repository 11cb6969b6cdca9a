package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type PlanRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) *PlanRepository {
	return &PlanRepository{db: db, logger: logger}
}

var _ subscription.PlanRepository = (*PlanRepository)(nil)

func (r *PlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	model := mappers.PlanToModel(plan)

	if err := db.GetTxFromContext(ctx, r.db).Select("*").Omit("id").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateError(err) {
			return subscription.ErrPlanCodeExists
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}

	plan.SetID(model.ID)
	return nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	model := mappers.PlanToModel(plan)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionPlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"price_kzt":   model.PriceKZT,
			"period_days": model.PeriodDays,
			"free_days":   model.FreeDays,
			"max_cars":    model.MaxCars,
			"is_active":   model.IsActive,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.SubscriptionPlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) GetByCode(ctx context.Context, code string) (*subscription.Plan, error) {
	var model models.SubscriptionPlanModel

	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan by code: %w", err)
	}
	return mappers.PlanToDomain(&model)
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.SubscriptionPlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("price_kzt ASC").
		Order("id ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return mapper.MapSliceWithError(planModels, mappers.PlanToDomain)
}

func (r *PlanRepository) ListAll(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.SubscriptionPlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Order("price_kzt ASC").
		Order("id ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return mapper.MapSliceWithError(planModels, mappers.PlanToDomain)
}
