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

type StreakRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStreak, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserStreak, error)
	Save(ctx context.Context, tx *gorm.DB, streak *UserStreak) error
}

type streakRepository struct {
	log logger.Logger
}

func NewStreakRepository() StreakRepository {
	return &streakRepository{
		log: logger.New("streakRepository"),
	}
}

// Get returns nil without an error when the user has no streak yet.
func (r *streakRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*UserStreak, error) {
	return r.find(ctx, tx.WithContext(ctx), userID, "Get")
}

// GetForUpdate is Get with the row locked for the rest of the transaction.
func (r *streakRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*UserStreak, error) {
	query := tx.WithContext(ctx)
	if supportsRowLocks(tx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(ctx, query, userID, "GetForUpdate")
}

func (r *streakRepository) find(
	ctx context.Context,
	query *gorm.DB,
	userID uuid.UUID,
	function string,
) (*UserStreak, error) {
	log := r.log.Function(function)

	var streak UserStreak
	if err := query.Where("user_id = ?", userID).First(&streak).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get streak", err, "userID", userID)
	}

	return &streak, nil
}

// Save inserts a new streak row or updates the existing one.
func (r *streakRepository) Save(ctx context.Context, tx *gorm.DB, streak *UserStreak) error {
	log := r.log.Function("Save")

	query := tx.WithContext(ctx)
	if streak.ID == uuid.Nil {
		query = query.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{"current_days", "longest_days", "last_action_day", "updated_at"},
			),
		})
		if err := query.Create(streak).Error; err != nil {
			return log.Err("failed to create streak", err, "userID", streak.UserID)
		}
		return nil
	}

	if err := query.Save(streak).Error; err != nil {
		return log.Err("failed to update streak", err, "userID", streak.UserID)
	}

	return nil
}

func supportsRowLocks(tx *gorm.DB) bool {
	return tx.Dialector != nil && tx.Dialector.Name() == "postgres"
}
