package adminController

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/Bparsons0904/goLogger"

	"sinecarbon/internal/models"
	"sinecarbon/internal/services"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflicting update")
)

type AdminController struct {
	ruleOverlay *services.RuleOverlayService
	log         logger.Logger
}

type AdminControllerInterface interface {
	GetRules(ctx context.Context) models.RankingPolicy
	UpdateRules(ctx context.Context, policy models.RankingPolicy) (models.RankingPolicy, error)
}

func New(service services.Service) AdminControllerInterface {
	return &AdminController{
		ruleOverlay: service.RuleOverlay,
		log:         logger.New("adminController"),
	}
}

func (c *AdminController) GetRules(ctx context.Context) models.RankingPolicy {
	return c.ruleOverlay.LoadRules(ctx)
}

// UpdateRules hot-swaps the ranking policy. Policies the overlay rejects are reported as
// validation failures.
func (c *AdminController) UpdateRules(
	ctx context.Context,
	policy models.RankingPolicy,
) (models.RankingPolicy, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateRules")

	updated, err := c.ruleOverlay.UpdateRules(ctx, policy)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPolicy) {
			return models.RankingPolicy{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		if errors.Is(err, services.ErrPolicyConflict) {
			return models.RankingPolicy{}, fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return models.RankingPolicy{}, log.Err("failed to update ranking rules", err)
	}

	return updated, nil
}
