package repositories

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "sinecarbon/internal/models"
)

type OutcomeEventRepository interface {
	Append(ctx context.Context, tx *gorm.DB, event *OutcomeEvent) error
	AppendBatch(ctx context.Context, tx *gorm.DB, events []*OutcomeEvent) error
	ListByTypes(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		types []OutcomeEventType,
	) ([]*OutcomeEvent, error)
}

type outcomeEventRepository struct {
	log logger.Logger
}

func NewOutcomeEventRepository() OutcomeEventRepository {
	return &outcomeEventRepository{
		log: logger.New("outcomeEventRepository"),
	}
}

func (r *outcomeEventRepository) Append(
	ctx context.Context,
	tx *gorm.DB,
	event *OutcomeEvent,
) error {
	log := r.log.Function("Append")

	if err := gorm.G[OutcomeEvent](tx).Create(ctx, event); err != nil {
		return log.Err(
			"failed to append outcome event",
			err,
			"userID", event.UserID,
			"recommendationID", event.RecommendationID,
			"eventType", event.EventType,
		)
	}

	return nil
}

func (r *outcomeEventRepository) AppendBatch(
	ctx context.Context,
	tx *gorm.DB,
	events []*OutcomeEvent,
) error {
	log := r.log.Function("AppendBatch")

	if len(events) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Create(events).Error; err != nil {
		return log.Err("failed to append outcome events", err, "count", len(events))
	}

	return nil
}

// ListByTypes returns the user's events of the given types, newest first.
func (r *outcomeEventRepository) ListByTypes(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	types []OutcomeEventType,
) ([]*OutcomeEvent, error) {
	log := r.log.Function("ListByTypes")

	events, err := gorm.G[*OutcomeEvent](tx).
		Where("user_id = ? AND event_type IN ?", userID, types).
		Order("occurred_at DESC").
		Order("id DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list outcome events", err, "userID", userID)
	}

	return events, nil
}
