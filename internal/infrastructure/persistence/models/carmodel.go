package models

import (
	"time"

	"github.com/autopro-kz/autopro/internal/shared/constants"
)

type CarModel struct {
	ID          uint    `gorm:"primarykey"`
	AuthorID    uint    `gorm:"not null;index:idx_cars_author_deleted,priority:1"`
	Name        string  `gorm:"not null;size:255"`
	Description *string `gorm:"type:text"`
	PricePerDay *int64
	ReleaseYear *int
	IsActive    bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeleteDate  *time.Time `gorm:"index:idx_cars_author_deleted,priority:2"`
}

func (CarModel) TableName() string {
	return constants.TableCars
}
