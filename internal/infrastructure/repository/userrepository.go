package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/autopro-kz/autopro/internal/domain/user"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/mappers"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
	"github.com/autopro-kz/autopro/internal/shared/db"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

// UserRepository implements user.Repository on gorm.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	if err := db.GetTxFromContext(ctx, r.db).Select("*").Omit("id").Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user in database", "login", model.Login, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	userEntity.SetID(model.ID)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":                  model.Name,
			"phone_number":          model.PhoneNumber,
			"role":                  model.Role,
			"password_hash":         model.PasswordHash,
			"is_active":             model.IsActive,
			"failed_login_attempts": model.FailedLoginAttempts,
			"locked_until":          model.LockedUntil,
			"updated_at":            model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).Where("login = ?", login).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("login = ?", login).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check login: %w", err)
	}
	return count > 0, nil
}
