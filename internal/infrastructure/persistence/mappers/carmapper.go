package mappers

import (
	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/infrastructure/persistence/models"
)

func CarToModel(c *listing.Car) *models.CarModel {
	return &models.CarModel{
		ID:          c.ID(),
		AuthorID:    c.AuthorID(),
		Name:        c.Name(),
		Description: c.Description(),
		PricePerDay: c.PricePerDay(),
		ReleaseYear: c.ReleaseYear(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
		DeleteDate:  c.DeleteDate(),
	}
}

func CarToDomain(m *models.CarModel) *listing.Car {
	return listing.ReconstructCar(listing.CarParams{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Name:        m.Name,
		Description: m.Description,
		PricePerDay: m.PricePerDay,
		ReleaseYear: m.ReleaseYear,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		DeleteDate:  utcPtr(m.DeleteDate),
	})
}
