package listing

import "context"

// CarFilter narrows List. A nil IsActive returns both moderated and pending
// listings.
type CarFilter struct {
	IsActive *bool
}

type CarRepository interface {
	Create(ctx context.Context, car *Car) error
	Update(ctx context.Context, car *Car) error
	// GetByID returns non-deleted cars only.
	GetByID(ctx context.Context, id uint) (*Car, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*Car, error)
	// List returns non-deleted cars matching filter, newest first.
	List(ctx context.Context, filter CarFilter) ([]*Car, error)
	// CountActiveByAuthor counts the author's non-deleted listings.
	CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error)
}
