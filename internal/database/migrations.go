package database

import (
	"sinecarbon/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.PersonalityResult{},
		&models.RecommendationCard{},
		&models.LegacyAction{},
		&models.AppConfig{},
		&models.OutcomeEvent{},
		&models.CompletedAction{},
		&models.UserWeightVector{},
		&models.UserStreak{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range Models() {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_outcome_events_user_type ON outcome_events(user_id, event_type)",
		"CREATE INDEX IF NOT EXISTS idx_recommendation_cards_category ON recommendation_cards(category)",
		"CREATE INDEX IF NOT EXISTS idx_completed_actions_completed_at ON completed_actions(completed_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
