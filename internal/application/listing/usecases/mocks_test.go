package usecases

import (
	"context"
	"time"

	entitlementUsecases "github.com/autopro-kz/autopro/internal/application/entitlement/usecases"
	"github.com/autopro-kz/autopro/internal/domain/listing"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type mockCarRepository struct {
	CreateFunc       func(ctx context.Context, car *listing.Car) error
	UpdateFunc       func(ctx context.Context, car *listing.Car) error
	GetByIDFunc      func(ctx context.Context, id uint) (*listing.Car, error)
	ListByAuthorFunc func(ctx context.Context, authorID uint) ([]*listing.Car, error)
	ListFunc         func(ctx context.Context, filter listing.CarFilter) ([]*listing.Car, error)
	CountFunc        func(ctx context.Context, authorID uint) (int64, error)
}

func (m *mockCarRepository) Create(ctx context.Context, car *listing.Car) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, car)
	}
	car.SetID(1)
	return nil
}

func (m *mockCarRepository) Update(ctx context.Context, car *listing.Car) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, car)
	}
	return nil
}

func (m *mockCarRepository) GetByID(ctx context.Context, id uint) (*listing.Car, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, listing.ErrCarNotFound
}

func (m *mockCarRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*listing.Car, error) {
	if m.ListByAuthorFunc != nil {
		return m.ListByAuthorFunc(ctx, authorID)
	}
	return nil, nil
}

func (m *mockCarRepository) List(ctx context.Context, filter listing.CarFilter) ([]*listing.Car, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockCarRepository) CountActiveByAuthor(ctx context.Context, authorID uint) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, authorID)
	}
	return 0, nil
}

type stubChecker struct {
	decision *entitlementUsecases.Decision
	err      error
}

func (s *stubChecker) Execute(ctx context.Context, ownerID uint) (*entitlementUsecases.Decision, error) {
	return s.decision, s.err
}

func allow() *stubChecker {
	return &stubChecker{decision: &entitlementUsecases.Decision{Allowed: true}}
}

func denyWith(reason string) *stubChecker {
	return &stubChecker{decision: &entitlementUsecases.Decision{Reason: &reason}}
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type chanNotifier struct {
	notices chan NewListingNotice
}

func (n *chanNotifier) NotifyNewListing(ctx context.Context, notice NewListingNotice) error {
	n.notices <- notice
	return nil
}

func storedCar(id, author uint) *listing.Car {
	return listing.ReconstructCar(listing.CarParams{
		ID:        id,
		AuthorID:  author,
		Name:      "Toyota Camry",
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	})
}
