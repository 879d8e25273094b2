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

var weightVectorColumns = []string{
	"currency", "time", "carbon", "effort", "novelty", "recency", "diversity", "fit", "updated_at",
}

type WeightVectorRepository interface {
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserWeightVector, error)
	Save(ctx context.Context, tx *gorm.DB, vector *UserWeightVector) error
}

type weightVectorRepository struct {
	log logger.Logger
}

func NewWeightVectorRepository() WeightVectorRepository {
	return &weightVectorRepository{
		log: logger.New("weightVectorRepository"),
	}
}

// Get returns nil without an error when nothing has been learned for the user yet.
func (r *weightVectorRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*UserWeightVector, error) {
	log := r.log.Function("Get")

	vector, err := gorm.G[UserWeightVector](tx).Where("user_id = ?", userID).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get weight vector", err, "userID", userID)
	}

	return &vector, nil
}

func (r *weightVectorRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	vector *UserWeightVector,
) error {
	log := r.log.Function("Save")

	query := tx.WithContext(ctx)
	if vector.ID == uuid.Nil {
		err := query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(weightVectorColumns),
		}).Create(vector).Error
		if err != nil {
			return log.Err("failed to create weight vector", err, "userID", vector.UserID)
		}
		return nil
	}

	if err := query.Save(vector).Error; err != nil {
		return log.Err("failed to update weight vector", err, "userID", vector.UserID)
	}

	return nil
}
