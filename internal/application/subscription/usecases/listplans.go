package usecases

import (
	"context"
	"fmt"

	"github.com/autopro-kz/autopro/internal/application/subscription/dto"
	"github.com/autopro-kz/autopro/internal/domain/subscription"
	"github.com/autopro-kz/autopro/internal/shared/logger"
	"github.com/autopro-kz/autopro/internal/shared/mapper"
)

type ListPlansQuery struct {
	IncludeInactive bool
}

type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	renderer dto.DescriptionRenderer
	logger   logger.Interface
}

func NewListPlansUseCase(
	planRepo subscription.PlanRepository,
	renderer dto.DescriptionRenderer,
	logger logger.Interface,
) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute returns active plans ordered by price ascending, or every plan for admins.
func (uc *ListPlansUseCase) Execute(ctx context.Context, query ListPlansQuery) ([]*dto.PlanDTO, error) {
	var (
		plans []*subscription.Plan
		err   error
	)
	if query.IncludeInactive {
		plans, err = uc.planRepo.ListAll(ctx)
	} else {
		plans, err = uc.planRepo.ListActive(ctx)
	}
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err, "include_inactive", query.IncludeInactive)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := mapper.MapSlice(plans, func(p *subscription.Plan) *dto.PlanDTO {
		return dto.ToPlanDTOWithHTML(p, uc.renderer)
	})
	if result == nil {
		result = []*dto.PlanDTO{}
	}
	return result, nil
}
