package repositories

import (
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	. "sinecarbon/internal/models"
)

type CompletedActionRepository interface {
	FindForDay(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		recommendationID string,
		day string,
	) (*CompletedAction, error)
	ListRecommendationIDsForDay(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		day string,
	) ([]string, error)
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, action *CompletedAction) (bool, error)
}

type completedActionRepository struct {
	log logger.Logger
}

func NewCompletedActionRepository() CompletedActionRepository {
	return &completedActionRepository{
		log: logger.New("completedActionRepository"),
	}
}

// FindForDay returns nil without an error when nothing was completed.
func (r *completedActionRepository) FindForDay(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	recommendationID string,
	day string,
) (*CompletedAction, error) {
	log := r.log.Function("FindForDay")

	action, err := gorm.G[CompletedAction](tx).
		Where("user_id = ? AND recommendation_id = ? AND action_day = ?", userID, recommendationID, day).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err(
			"failed to find completed action",
			err,
			"userID", userID,
			"recommendationID", recommendationID,
			"day", day,
		)
	}

	return &action, nil
}

func (r *completedActionRepository) ListRecommendationIDsForDay(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	day string,
) ([]string, error) {
	log := r.log.Function("ListRecommendationIDsForDay")

	var ids []string
	err := tx.WithContext(ctx).
		Model(&CompletedAction{}).
		Where("user_id = ? AND action_day = ?", userID, day).
		Pluck("recommendation_id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to list completed actions", err, "userID", userID, "day", day)
	}

	return ids, nil
}

// CreateIfAbsent inserts the action unless one already exists for the same user,
// recommendation and day. It reports whether a row was written.
func (r *completedActionRepository) CreateIfAbsent(
	ctx context.Context,
	tx *gorm.DB,
	action *CompletedAction,
) (bool, error) {
	log := r.log.Function("CreateIfAbsent")

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(action)
	if result.Error != nil {
		return false, log.Err(
			"failed to create completed action",
			result.Error,
			"userID", action.UserID,
			"recommendationID", action.RecommendationID,
		)
	}

	return result.RowsAffected > 0, nil
}
