package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/subscription"
	vo "github.com/autopro-kz/autopro/internal/domain/subscription/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/constants"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type SubscriptionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: logger}
}

var _ subscription.SubscriptionRepository = (*SubscriptionRepository)(nil)

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.OwnerSubscription) error {
	model := mappers.SubscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	sub.SetID(model.ID)
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.OwnerSubscription) error {
	model := mappers.SubscriptionToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OwnerSubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"started_at":  model.StartedAt,
			"trial_until": model.TrialUntil,
			"valid_until": model.ValidUntil,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uint) (*subscription.OwnerSubscription, error) {
	var model models.OwnerSubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return mappers.SubscriptionToDomain(&model)
}

// GetActiveByOwner picks the active subscription with the latest valid_until
// whose plan is still active. Ties on valid_until go to the highest id so the
// answer is stable across calls.
func (r *SubscriptionRepository) GetActiveByOwner(ctx context.Context, ownerID uint, now time.Time) (*subscription.OwnerSubscription, *subscription.Plan, error) {
	var subModel models.OwnerSubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Table(constants.TableOwnerSubscriptions+" AS s").
		Select("s.*").
		Joins("JOIN "+constants.TableSubscriptionPlans+" AS p ON p.id = s.plan_id").
		Where("s.owner_id = ?", ownerID).
		Where("s.status = ?", vo.StatusActive.String()).
		Where("p.is_active = ?", true).
		Scopes(db.ValidAt("s", now.UTC())).
		Order("s.valid_until DESC").
		Order("s.id DESC").
		Limit(1).
		Take(&subModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	var planModel models.SubscriptionPlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&planModel, subModel.PlanID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load plan %d: %w", subModel.PlanID, err)
	}

	sub, err := mappers.SubscriptionToDomain(&subModel)
	if err != nil {
		return nil, nil, err
	}
	plan, err := mappers.PlanToDomain(&planModel)
	if err != nil {
		return nil, nil, err
	}
	return sub, plan, nil
}

func (r *SubscriptionRepository) ExistsOtherWithStatus(ctx context.Context, ownerID, excludeID uint, statuses ...vo.SubscriptionStatus) (bool, error) {
	if len(statuses) == 0 {
		return false, nil
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}

	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.OwnerSubscriptionModel{}).
		Where("owner_id = ?", ownerID).
		Where("id <> ?", excludeID).
		Where("status IN ?", values).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check owner subscriptions: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionRepository) ListLapsedActive(ctx context.Context, now time.Time, limit int) ([]*subscription.OwnerSubscription, error) {
	var subModels []*models.OwnerSubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.StatusActive.String()).
		Where("valid_until IS NOT NULL AND valid_until < ?", now.UTC()).
		Order("id ASC").
		Limit(limit).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list lapsed subscriptions: %w", err)
	}
	return mapper.MapSliceWithError(subModels, mappers.SubscriptionToDomain)
}
