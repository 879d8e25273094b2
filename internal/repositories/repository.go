package repositories

import (
	"sinecarbon/internal/database"
)

type Repository struct {
	User            UserRepository
	Personality     PersonalityRepository
	Catalog         CatalogRepository
	AppConfig       AppConfigRepository
	OutcomeEvent    OutcomeEventRepository
	CompletedAction CompletedActionRepository
	Streak          StreakRepository
	WeightVector    WeightVectorRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:            NewUserRepository(),
		Personality:     NewPersonalityRepository(),
		Catalog:         NewCatalogRepository(db.Cache.Catalog), // catalog reads are cached
		AppConfig:       NewAppConfigRepository(),
		OutcomeEvent:    NewOutcomeEventRepository(),
		CompletedAction: NewCompletedActionRepository(),
		Streak:          NewStreakRepository(),
		WeightVector:    NewWeightVectorRepository(),
	}
}
