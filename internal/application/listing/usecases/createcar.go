package usecases

import (
	"context"
	"fmt"
	"time"

	entitlementUsecases "github.com/autopro-kz/autopro/internal/application/entitlement/usecases"
	"github.com/autopro-kz/autopro/internal/application/listing/dto"
	"github.com/autopro-kz/autopro/internal/domain/listing"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/goroutine"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

const notifyTimeout = 30 * time.Second

// PublishChecker decides whether an owner may add another listing.
type PublishChecker interface {
	Execute(ctx context.Context, ownerID uint) (*entitlementUsecases.Decision, error)
}

// NewListingNotifier tells moderators a listing is waiting for review.
type NewListingNotifier interface {
	NotifyNewListing(ctx context.Context, notice NewListingNotice) error
}

type NewListingNotice struct {
	CarID       uint
	OwnerID     uint
	Name        string
	PricePerDay *int64
	ReleaseYear *int
	CreatedAt   time.Time
}

type CreateCarCommand struct {
	OwnerID     uint
	Name        string
	Description *string
	PricePerDay *int64
	ReleaseYear *int
}

type CreateCarUseCase struct {
	carRepo  listing.CarRepository
	checker  PublishChecker
	txMgr    db.Transactor
	clock    biztime.Clock
	notifier NewListingNotifier // Optional
	logger   logger.Interface
}

func NewCreateCarUseCase(
	carRepo listing.CarRepository,
	checker PublishChecker,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateCarUseCase {
	return &CreateCarUseCase{
		carRepo: carRepo,
		checker: checker,
		txMgr:   txMgr,
		clock:   clock,
		logger:  logger,
	}
}

// SetNotifier sets the moderation notifier (optional dependency injection)
func (uc *CreateCarUseCase) SetNotifier(n NewListingNotifier) {
	uc.notifier = n
}

// Execute re-checks the entitlement and inserts the listing inside one
// transaction. New listings wait for moderation.
func (uc *CreateCarUseCase) Execute(ctx context.Context, cmd CreateCarCommand) (*dto.CarDTO, error) {
	car, err := listing.NewCar(listing.CarParams{
		AuthorID:    cmd.OwnerID,
		Name:        cmd.Name,
		Description: cmd.Description,
		PricePerDay: cmd.PricePerDay,
		ReleaseYear: cmd.ReleaseYear,
	}, uc.clock.Now())
	if err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		decision, err := uc.checker.Execute(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}
		if denied := decision.Err(); denied != nil {
			uc.logger.Infow("listing rejected by entitlement",
				"owner_id", cmd.OwnerID,
				"reason", *decision.Reason,
			)
			return denied
		}
		if err := uc.carRepo.Create(txCtx, car); err != nil {
			return fmt.Errorf("failed to create car: %w", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			uc.logger.Errorw("failed to create car", "owner_id", cmd.OwnerID, "error", err)
		}
		return nil, err
	}

	uc.logger.Infow("car listing created", "car_id", car.ID(), "owner_id", cmd.OwnerID)

	if uc.notifier != nil {
		notice := NewListingNotice{
			CarID:       car.ID(),
			OwnerID:     car.AuthorID(),
			Name:        car.Name(),
			PricePerDay: car.PricePerDay(),
			ReleaseYear: car.ReleaseYear(),
			CreatedAt:   car.CreatedAt(),
		}
		goroutine.SafeGoWithTimeout(uc.logger, "notify-new-listing", notifyTimeout, func(ctx context.Context) {
			if err := uc.notifier.NotifyNewListing(ctx, notice); err != nil {
				uc.logger.Warnw("failed to notify about new listing", "car_id", notice.CarID, "error", err)
			}
		})
	}

	return dto.ToCarDTO(car), nil
}
