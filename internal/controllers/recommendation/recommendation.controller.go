package recommendationController

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/Bparsons0904/goLogger"

	. "sinecarbon/internal/models"
	"sinecarbon/internal/services"
	"sinecarbon/internal/utils"
)

const maxRecommendationIDLength = 64

var ErrValidation = errors.New("validation failed")

type OutcomeRequest struct {
	Outcome string         `json:"outcome"`
	Context map[string]any `json:"context"`
}

type RecommendationController struct {
	ranking        *services.RankingService
	actionRecorder *services.ActionRecorderService
	bucketList     *services.BucketListService
	log            logger.Logger
}

type RecommendationControllerInterface interface {
	GetNextActions(ctx context.Context, user *User) (*services.NextActions, error)
	RecordOutcome(
		ctx context.Context,
		user *User,
		recommendationID string,
		req OutcomeRequest,
	) (*services.OutcomeResult, error)
	GetBucketList(ctx context.Context, user *User) services.BucketList
}

func New(service services.Service) RecommendationControllerInterface {
	return &RecommendationController{
		ranking:        service.Ranking,
		actionRecorder: service.ActionRecorder,
		bucketList:     service.BucketList,
		log:            logger.New("recommendationController"),
	}
}

// GetNextActions ranks the catalog for the user and logs the served cards as shown.
func (c *RecommendationController) GetNextActions(
	ctx context.Context,
	user *User,
) (*services.NextActions, error) {
	log := c.log.TraceFromContext(ctx).Function("GetNextActions")

	next, err := c.ranking.GetNextActions(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to rank recommendations", err, "userID", user.ID)
	}

	if next == nil {
		return nil, nil
	}

	if err := c.actionRecorder.RecordShown(ctx, user.ID, next.IDs()); err != nil {
		log.Warn("failed to record shown recommendations", "userID", user.ID, "error", err)
	}

	return next, nil
}

func (c *RecommendationController) RecordOutcome(
	ctx context.Context,
	user *User,
	recommendationID string,
	req OutcomeRequest,
) (*services.OutcomeResult, error) {
	log := c.log.TraceFromContext(ctx).Function("RecordOutcome")

	if err := validateOutcome(recommendationID, req); err != nil {
		log.Info("rejected outcome submission", "userID", user.ID, "error", err)
		return nil, err
	}

	result, err := c.actionRecorder.RecordOutcome(
		ctx,
		user.ID,
		recommendationID,
		Outcome(req.Outcome),
		req.Context,
	)
	if err != nil {
		return nil, err
	}

	log.Info(
		"Outcome recorded",
		"userID", user.ID,
		"recommendationID", recommendationID,
		"outcome", req.Outcome,
		"alreadyRecorded", result.AlreadyRecorded,
	)
	return result, nil
}

func (c *RecommendationController) GetBucketList(ctx context.Context, user *User) services.BucketList {
	return c.bucketList.GetBucketList(ctx, user.ID)
}

func validateOutcome(recommendationID string, req OutcomeRequest) error {
	if recommendationID == "" {
		return fmt.Errorf("%w: recommendation id is required", ErrValidation)
	}

	if len(recommendationID) > maxRecommendationIDLength {
		return fmt.Errorf("%w: recommendation id is too long", ErrValidation)
	}

	if utils.HasInvalidText(recommendationID) {
		return fmt.Errorf("%w: recommendation id is not valid text", ErrValidation)
	}

	if !Outcome(req.Outcome).IsValid() {
		return fmt.Errorf("%w: outcome must be one of done, snooze, dismiss", ErrValidation)
	}

	return nil
}
