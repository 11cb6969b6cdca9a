package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/biztime"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type UpdatePlanCommand struct {
	PlanID uint
	Patch  subscription.PlanPatch
}

type UpdatePlanUseCase struct {
	planRepo subscription.PlanRepository
	clock    biztime.Clock
	logger   logger.Interface
}

func NewUpdatePlanUseCase(
	planRepo subscription.PlanRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		planRepo: planRepo,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyPlanNotFound)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if err := plan.ApplyPatch(cmd.Patch, uc.clock.Now()); err != nil {
		return nil, apperrors.NewValidationError(i18n.KeyInvalidRequest, err.Error())
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to update plan", "plan_id", cmd.PlanID, "error", err)
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	uc.logger.Infow("plan updated", "plan_id", plan.ID(), "code", plan.Code())
	return dto.ToPlanDTO(plan), nil
}
