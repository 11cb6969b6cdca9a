package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
	"github.com/autopro-kz/autopro/internal/shared/logger"
)

type GetPlanUseCase struct {
	planRepo subscription.PlanRepository
	renderer dto.DescriptionRenderer
	logger   logger.Interface
}

func NewGetPlanUseCase(
	planRepo subscription.PlanRepository,
	renderer dto.DescriptionRenderer,
	logger logger.Interface,
) *GetPlanUseCase {
	return &GetPlanUseCase{
		planRepo: planRepo,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *GetPlanUseCase) Execute(ctx context.Context, planID uint) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			return nil, apperrors.NewNotFoundError(i18n.KeyPlanNotFound)
		}
		uc.logger.Errorw("failed to get plan", "plan_id", planID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return dto.ToPlanDTOWithHTML(plan, uc.renderer), nil
}
