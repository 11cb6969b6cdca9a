package models

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type UserModel struct {
	ID                  uint    `gorm:"primarykey"`
	Login               string  `gorm:"uniqueIndex;not null;size:255"`
	Name                string  `gorm:"not null;size:255"`
	PhoneNumber         *string `gorm:"size:30"`
	Role                string  `gorm:"not null;default:owner;size:50"`
	PasswordHash        string  `gorm:"size:255"`
	IsActive            bool    `gorm:"not null;default:true"`
	FailedLoginAttempts int     `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
