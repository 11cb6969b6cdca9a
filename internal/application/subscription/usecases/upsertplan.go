package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	"github.com/autopro-kz/autopro/internal/shared/db"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type UpsertPlanCommand struct {
	Code        string
	Name        string
	Description string
	PriceKZT    int64
	PeriodDays  int
	FreeDays    int
	MaxCars     *int
	IsActive    bool
}

type UpsertPlanResult struct {
	Plan    *dto.PlanDTO
	Created bool
}

// UpsertPlanUseCase creates a plan or overwrites the editable fields of the
// plan with the same code. Existing subscriptions keep the window they were
// granted.
type UpsertPlanUseCase struct {
	planRepo subscription.PlanRepository
	txMgr    db.Transactor
	clock    biztime.Clock
	logger   logger.Interface
}

func NewUpsertPlanUseCase(
	planRepo subscription.PlanRepository,
	txMgr db.Transactor,
	clock biztime.Clock,
	logger logger.Interface,
) *UpsertPlanUseCase {
	return &UpsertPlanUseCase{
		planRepo: planRepo,
		txMgr:    txMgr,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *UpsertPlanUseCase) Execute(ctx context.Context, cmd UpsertPlanCommand) (*UpsertPlanResult, error) {
	now := uc.clock.Now()
	var (
		plan    *subscription.Plan
		created bool
	)

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := subscription.NewPlan(subscription.PlanParams{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			PriceKZT:    cmd.PriceKZT,
			PeriodDays:  cmd.PeriodDays,
			FreeDays:    cmd.FreeDays,
			MaxCars:     cmd.MaxCars,
		}, now)
		if err != nil {
			return apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
		}

		existing, err := uc.planRepo.GetByCode(txCtx, fresh.Code())
		if err != nil && !errors.Is(err, subscription.ErrPlanNotFound) {
			return fmt.Errorf("failed to look up plan: %w", err)
		}

		if existing == nil {
			if !cmd.IsActive {
				fresh.Deactivate(now)
			}
			if err := uc.planRepo.Create(txCtx, fresh); err != nil {
				return fmt.Errorf("failed to create plan: %w", err)
			}
			plan, created = fresh, true
			return nil
		}

		patch := subscription.PlanPatch{
			Name:         &cmd.Name,
			Description:  &cmd.Description,
			PriceKZT:     &cmd.PriceKZT,
			PeriodDays:   &cmd.PeriodDays,
			FreeDays:     &cmd.FreeDays,
			MaxCars:      cmd.MaxCars,
			ClearMaxCars: cmd.MaxCars == nil,
			IsActive:     &cmd.IsActive,
		}
		if err := existing.ApplyPatch(patch, now); err != nil {
			return apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
		}
		if err := uc.planRepo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		plan = existing
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to upsert plan", "code", cmd.Code, "error", err)
		return nil, err
	}

	uc.logger.Infow("plan upserted", "plan_id", plan.ID(), "code", plan.Code(), "created", created)
	return &UpsertPlanResult{Plan: dto.ToPlanDTO(plan), Created: created}, nil
}
