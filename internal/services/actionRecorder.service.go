package services

import (
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/utils"
)

// OutcomeResult is the reply to a recorded outcome. Impact is only non-zero for done.
type OutcomeResult struct {
	Outcome         models.Outcome `json:"outcome"`
	VerifiedImpact  Impact         `json:"verifiedImpact"`
	Streak          StreakView     `json:"streak"`
	Bonus           *Bonus         `json:"bonus,omitempty"`
	AlreadyRecorded bool           `json:"alreadyRecorded"`
}

type ActionRecorderService struct {
	transaction   *TransactionService
	userRepo      repositories.UserRepository
	catalogRepo   repositories.CatalogRepository
	outcomeRepo   repositories.OutcomeEventRepository
	completedRepo repositories.CompletedActionRepository
	weightRepo    repositories.WeightVectorRepository
	streaks       *StreakService
	clock         *utils.DayClock
	random        RandomSource
	bonusChance   float64
	locker        *userLocker
	log           logger.Logger
}

func NewActionRecorderService(
	repos repositories.Repository,
	transaction *TransactionService,
	streaks *StreakService,
	clock *utils.DayClock,
	bonusChance float64,
) *ActionRecorderService {
	return &ActionRecorderService{
		transaction:   transaction,
		userRepo:      repos.User,
		catalogRepo:   repos.Catalog,
		outcomeRepo:   repos.OutcomeEvent,
		completedRepo: repos.CompletedAction,
		weightRepo:    repos.WeightVector,
		streaks:       streaks,
		clock:         clock,
		random:        globalRandom{},
		bonusChance:   bonusChance,
		locker:        newUserLocker(),
		log:           logger.New("actionRecorderService"),
	}
}

// WithRandomSource replaces the source used for bonus rolls.
func (s *ActionRecorderService) WithRandomSource(random RandomSource) *ActionRecorderService {
	s.random = random
	return s
}

// RecordOutcome stores the user's response to a recommendation and updates everything
// derived from it. A repeated done on the same day returns the original impact and
// changes nothing beyond logging the event.
func (s *ActionRecorderService) RecordOutcome(
	ctx context.Context,
	userID uuid.UUID,
	recommendationID string,
	outcome models.Outcome,
	actionContext map[string]any,
) (*OutcomeResult, error) {
	log := s.log.TraceFromContext(ctx).Function("RecordOutcome")

	eventType, ok := outcome.EventType()
	if !ok {
		return nil, log.ErrorWithType(ErrInvalidOutcome, "unsupported outcome", "outcome", outcome)
	}

	unlock := s.locker.Lock(userID)
	defer unlock()

	var result *OutcomeResult
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		exists, err := s.userRepo.Exists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !exists {
			return log.ErrorWithType(ErrUserNotFound, "user not found", "userID", userID)
		}

		today := s.clock.Today()
		event := &models.OutcomeEvent{
			UserID:           userID,
			RecommendationID: recommendationID,
			EventType:        eventType,
			OccurredAt:       s.clock.Now().UTC(),
		}

		if outcome == models.OutcomeDone {
			existing, err := s.completedRepo.FindForDay(ctx, tx, userID, recommendationID, today)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := s.outcomeRepo.Append(ctx, tx, event); err != nil {
					return err
				}
				result, err = s.replay(ctx, tx, existing)
				return err
			}
		}

		card, err := s.catalogRepo.GetByID(ctx, tx, recommendationID)
		if err != nil {
			return err
		}
		if card == nil {
			return log.ErrorWithType(
				ErrRecommendationNotFound,
				"recommendation not found",
				"recommendationID", recommendationID,
			)
		}

		if err := s.outcomeRepo.Append(ctx, tx, event); err != nil {
			return err
		}

		result = &OutcomeResult{Outcome: outcome}

		if outcome == models.OutcomeDone {
			impact := WeeklyImpact(card.AnnualKgCO2e, s.catalogRepo.GetMeta(ctx))
			action := &models.CompletedAction{
				UserID:           userID,
				RecommendationID: recommendationID,
				ActionDay:        today,
				Rupees:           impact.Rupees,
				CO2Kg:            impact.CO2Kg,
				Context:          actionContext,
				Source:           models.CompletedActionSourceRecommendation,
				CompletedAt:      event.OccurredAt,
			}

			inserted, err := s.completedRepo.CreateIfAbsent(ctx, tx, action)
			if err != nil {
				return err
			}
			if !inserted {
				// Another instance committed the same completion first.
				existing, err := s.completedRepo.FindForDay(ctx, tx, userID, recommendationID, today)
				if err != nil {
					return err
				}
				if existing == nil {
					return log.Error("completed action vanished after conflict", "userID", userID)
				}
				result, err = s.replay(ctx, tx, existing)
				return err
			}

			result.VerifiedImpact = impact
			if result.Streak, err = s.streaks.Touch(ctx, tx, userID); err != nil {
				return err
			}
		} else {
			if result.Streak, err = s.streaks.Current(ctx, tx, userID); err != nil {
				return err
			}
		}

		if err := s.learn(ctx, tx, userID, card, outcome); err != nil {
			return err
		}

		if outcome == models.OutcomeDone {
			result.Bonus = rollBonus(s.random, s.bonusChance)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRecommendationNotFound) || errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, log.Err(
			"failed to record outcome",
			err,
			"userID", userID,
			"recommendationID", recommendationID,
			"outcome", outcome,
		)
	}

	return result, nil
}

// RecordShown logs that the recommendations were presented to the user.
func (s *ActionRecorderService) RecordShown(
	ctx context.Context,
	userID uuid.UUID,
	recommendationIDs []string,
) error {
	log := s.log.TraceFromContext(ctx).Function("RecordShown")

	if len(recommendationIDs) == 0 {
		return nil
	}

	now := s.clock.Now().UTC()
	shown := make([]*models.OutcomeEvent, 0, len(recommendationIDs))
	for _, id := range recommendationIDs {
		shown = append(shown, &models.OutcomeEvent{
			UserID:           userID,
			RecommendationID: id,
			EventType:        models.OutcomeEventShown,
			OccurredAt:       now,
		})
	}

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return s.outcomeRepo.AppendBatch(ctx, tx, shown)
	})
	if err != nil {
		return log.Err("failed to record shown recommendations", err, "userID", userID)
	}

	return nil
}

func (s *ActionRecorderService) replay(
	ctx context.Context,
	tx *gorm.DB,
	existing *models.CompletedAction,
) (*OutcomeResult, error) {
	streak, err := s.streaks.Current(ctx, tx, existing.UserID)
	if err != nil {
		return nil, err
	}

	return &OutcomeResult{
		Outcome:         models.OutcomeDone,
		VerifiedImpact:  Impact{Rupees: existing.Rupees, CO2Kg: existing.CO2Kg},
		Streak:          streak,
		AlreadyRecorded: true,
	}, nil
}

func (s *ActionRecorderService) learn(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	card *models.RecommendationCard,
	outcome models.Outcome,
) error {
	vector, err := s.weightRepo.Get(ctx, tx, userID)
	if err != nil {
		return err
	}
	if vector == nil {
		vector = models.NewUserWeightVector(userID)
	}

	ApplyOutcome(vector, outcome, topUtilityDimension(card))
	return s.weightRepo.Save(ctx, tx, vector)
}
