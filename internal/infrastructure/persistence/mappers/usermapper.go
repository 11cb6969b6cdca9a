package mappers

import (
	"fmt"

	"github.com/autopro-kz/autopro/internal/domain/user"
	vo "github.com/autopro-kz/autopro/internal/domain/user/valueobjects"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}
	role := vo.Role(model.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q for user %d", model.Role, model.ID)
	}
	u, err := user.ReconstructUser(user.UserParams{
		ID:                  model.ID,
		Login:               model.Login,
		Name:                model.Name,
		PhoneNumber:         model.PhoneNumber,
		Role:                role,
		PasswordHash:        model.PasswordHash,
		IsActive:            model.IsActive,
		FailedLoginAttempts: model.FailedLoginAttempts,
		LockedUntil:         model.LockedUntil,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user: %w", err)
	}
	return u, nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:                  entity.ID(),
		Login:               entity.Login(),
		Name:                entity.Name(),
		PhoneNumber:         entity.PhoneNumber(),
		Role:                entity.Role().String(),
		PasswordHash:        entity.PasswordHash(),
		IsActive:            entity.IsActive(),
		FailedLoginAttempts: entity.FailedLoginAttempts(),
		LockedUntil:         entity.LockedUntil(),
		CreatedAt:           entity.CreatedAt(),
		UpdatedAt:           entity.UpdatedAt(),
	}
}
