package dto

import (
	"time"

	"github.com/autopro-kz/autopro/internal/domain/listing"
)

type CarDTO struct {
	ID          uint      `json:"id"`
	AuthorID    uint      `json:"author_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	PricePerDay *int64    `json:"price_per_day"`
	ReleaseYear *int      `json:"release_year"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToCarDTO(c *listing.Car) *CarDTO {
	if c == nil {
		return nil
	}
	return &CarDTO{
		ID:          c.ID(),
		AuthorID:    c.AuthorID(),
		Name:        c.Name(),
		Description: c.Description(),
		PricePerDay: c.PricePerDay(),
		ReleaseYear: c.ReleaseYear(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
	}
}
