package repositories

import (
	"context"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	. "sinecarbon/internal/models"
)

type PersonalityRepository interface {
	LatestPersonality(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (string, error)
	Create(ctx context.Context, tx *gorm.DB, result *PersonalityResult) error
}

type personalityRepository struct {
	log logger.Logger
}

func NewPersonalityRepository() PersonalityRepository {
	return &personalityRepository{
		log: logger.New("personalityRepository"),
	}
}

// LatestPersonality returns the archetype of the user's newest quiz result, or an empty
// string when they have not taken one.
func (r *personalityRepository) LatestPersonality(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (string, error) {
	log := r.log.Function("LatestPersonality")

	result, err := gorm.G[PersonalityResult](tx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", log.Err("failed to get latest personality", err, "userID", userID)
	}

	return result.Archetype, nil
}

func (r *personalityRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	result *PersonalityResult,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[PersonalityResult](tx).Create(ctx, result); err != nil {
		return log.Err("failed to create personality result", err, "userID", result.UserID)
	}

	return nil
}
