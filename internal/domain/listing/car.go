package listing

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxCarNameLength = 255
	minReleaseYear   = 1950
)

// Car is a rental listing. New listings start inactive and are switched on by
// moderation. Deleted listings keep their row with deleteDate set.
type Car struct {
	id          uint
	authorID    uint
	name        string
	description *string
	pricePerDay *int64
	releaseYear *int
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
	deleteDate  *time.Time
}

type CarParams struct {
	ID          uint
	AuthorID    uint
	Name        string
	Description *string
	PricePerDay *int64
	ReleaseYear *int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeleteDate  *time.Time
}

func NewCar(p CarParams, now time.Time) (*Car, error) {
	c := &Car{
		authorID:    p.AuthorID,
		name:        strings.TrimSpace(p.Name),
		description: p.Description,
		pricePerDay: p.PricePerDay,
		releaseYear: p.ReleaseYear,
		createdAt:   now,
		updatedAt:   now,
	}
	if c.authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	if c.name == "" {
		return nil, fmt.Errorf("car name is required")
	}
	if len(c.name) > maxCarNameLength {
		return nil, fmt.Errorf("car name too long (max %d characters)", maxCarNameLength)
	}
	if c.pricePerDay != nil && *c.pricePerDay < 0 {
		return nil, fmt.Errorf("price per day cannot be negative")
	}
	if c.releaseYear != nil && (*c.releaseYear < minReleaseYear || *c.releaseYear > now.Year()+1) {
		return nil, fmt.Errorf("release year out of range")
	}
	return c, nil
}

func ReconstructCar(p CarParams) *Car {
	return &Car{
		id:          p.ID,
		authorID:    p.AuthorID,
		name:        p.Name,
		description: p.Description,
		pricePerDay: p.PricePerDay,
		releaseYear: p.ReleaseYear,
		isActive:    p.IsActive,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
		deleteDate:  p.DeleteDate,
	}
}

// SoftDelete marks the car deleted so it no longer counts toward the owner's cap.
func (c *Car) SoftDelete(now time.Time) {
	if c.deleteDate != nil {
		return
	}
	c.deleteDate = &now
	c.isActive = false
	c.updatedAt = now
}

// ToggleActive flips the moderation flag and returns the new value.
func (c *Car) ToggleActive(now time.Time) (bool, error) {
	if c.deleteDate != nil {
		return false, ErrCarDeleted
	}
	c.isActive = !c.isActive
	c.updatedAt = now
	return c.isActive, nil
}

// CanBeManagedBy reports whether userID may modify the listing.
func (c *Car) CanBeManagedBy(userID uint, isAdmin bool) bool {
	return isAdmin || c.authorID == userID
}

func (c *Car) IsDeleted() bool {
	return c.deleteDate != nil
}

func (c *Car) SetID(id uint) {
	c.id = id
}

func (c *Car) ID() uint {
	return c.id
}

func (c *Car) AuthorID() uint {
	return c.authorID
}

func (c *Car) Name() string {
	return c.name
}

func (c *Car) Description() *string {
	return c.description
}

func (c *Car) PricePerDay() *int64 {
	return c.pricePerDay
}

func (c *Car) ReleaseYear() *int {
	return c.releaseYear
}

func (c *Car) IsActive() bool {
	return c.isActive
}

func (c *Car) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Car) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Car) DeleteDate() *time.Time {
	return c.deleteDate
}
