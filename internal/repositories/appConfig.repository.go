package repositories

import (
	"context"
	"encoding/json"
	"errors"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	. "sinecarbon/internal/models"
)

// AppConfigRepository is the key/value store behind runtime configuration documents.
type AppConfigRepository interface {
	Get(ctx context.Context, tx *gorm.DB, key string, target any) (bool, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, key string, target any) (bool, error)
	Put(ctx context.Context, tx *gorm.DB, key string, value any) error
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, key string, value any) (bool, error)
}

type appConfigRepository struct {
	log logger.Logger
}

func NewAppConfigRepository() AppConfigRepository {
	return &appConfigRepository{
		log: logger.New("appConfigRepository"),
	}
}

// Get decodes the document stored under key into target. It reports false when the key
// has never been written.
func (r *appConfigRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	key string,
	target any,
) (bool, error) {
	return r.find(ctx, tx.WithContext(ctx), key, target, "Get")
}

// GetForUpdate is Get with the row locked for the rest of the transaction.
func (r *appConfigRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	key string,
	target any,
) (bool, error) {
	query := tx.WithContext(ctx)
	if supportsRowLocks(tx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.find(ctx, query, key, target, "GetForUpdate")
}

func (r *appConfigRepository) find(
	ctx context.Context,
	query *gorm.DB,
	key string,
	target any,
	function string,
) (bool, error) {
	log := r.log.Function(function)

	var config AppConfig
	if err := query.Where("key = ?", key).First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, log.Err("failed to get app config", err, "key", key)
	}

	if err := json.Unmarshal(config.Value, target); err != nil {
		return false, log.Err("failed to decode app config", err, "key", key)
	}

	return true, nil
}

func (r *appConfigRepository) Put(ctx context.Context, tx *gorm.DB, key string, value any) error {
	log := r.log.Function("Put")

	encoded, err := json.Marshal(value)
	if err != nil {
		return log.Err("failed to encode app config", err, "key", key)
	}

	config := AppConfig{Key: key, Value: datatypes.JSON(encoded)}
	err = tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&config).Error
	if err != nil {
		return log.Err("failed to store app config", err, "key", key)
	}

	return nil
}

// CreateIfAbsent writes the document only when the key is new. It reports false when
// another writer got there first.
func (r *appConfigRepository) CreateIfAbsent(
	ctx context.Context,
	tx *gorm.DB,
	key string,
	value any,
) (bool, error) {
	log := r.log.Function("CreateIfAbsent")

	encoded, err := json.Marshal(value)
	if err != nil {
		return false, log.Err("failed to encode app config", err, "key", key)
	}

	config := AppConfig{Key: key, Value: datatypes.JSON(encoded)}
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&config)
	if result.Error != nil {
		return false, log.Err("failed to create app config", result.Error, "key", key)
	}

	return result.RowsAffected > 0, nil
}
