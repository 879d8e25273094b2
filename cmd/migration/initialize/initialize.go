package initialize

import (
	"context"
	_ "embed"

	"sinecarbon/config"
	"sinecarbon/internal/repositories"
	. "sinecarbon/internal/models"
	"sinecarbon/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed catalog.yaml
var catalogData []byte

type catalogCardSeed struct {
	ID                string             `yaml:"id"`
	Category          string             `yaml:"category"`
	Tags              []string           `yaml:"tags"`
	Title             string             `yaml:"title"`
	Description       string             `yaml:"description"`
	EditorialPriority int                `yaml:"editorialPriority"`
	AnnualKgCO2e      float64            `yaml:"annualKgCo2e"`
	BehaviorDistance  string             `yaml:"behaviorDistance"`
	PersonaFit        map[string]float64 `yaml:"personaFit"`
}

type legacyActionSeed struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Category string  `yaml:"category"`
	AnnualKg float64 `yaml:"annualKg"`
}

type catalogSeed struct {
	Cards         []catalogCardSeed  `yaml:"cards"`
	LegacyActions []legacyActionSeed `yaml:"legacyActions"`
}

func InitializeTables(
	db *gorm.DB,
	config config.Config,
	repos repositories.Repository,
	log logger.Logger,
) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	ctx := context.Background()

	seed, err := loadCatalog()
	if err != nil {
		return log.Err("failed to load catalog", err)
	}

	if err := repos.Catalog.UpsertCards(ctx, db, seed.cards()); err != nil {
		return log.Err("failed to initialize recommendation cards", err)
	}

	if err := repos.Catalog.UpsertLegacyActions(ctx, db, seed.legacyActions()); err != nil {
		return log.Err("failed to initialize legacy actions", err)
	}

	if err := initializeRankingPolicy(ctx, db, repos, log); err != nil {
		return log.Err("failed to initialize ranking policy", err)
	}

	log.Info(
		"Table initialization complete",
		"cards", len(seed.Cards),
		"legacyActions", len(seed.LegacyActions),
	)
	return nil
}

// loadCatalog parses the embedded catalog.
func loadCatalog() (*catalogSeed, error) {
	var seed catalogSeed
	if err := yaml.Unmarshal(catalogData, &seed); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *catalogSeed) cards() []*RecommendationCard {
	cards := make([]*RecommendationCard, 0, len(s.Cards))
	for _, card := range s.Cards {
		cards = append(cards, &RecommendationCard{
			ID:                card.ID,
			Category:          card.Category,
			Tags:              datatypes.JSONSlice[string](card.Tags),
			Title:             utils.CleanText(card.Title),
			Description:       utils.CleanText(card.Description),
			EditorialPriority: card.EditorialPriority,
			AnnualKgCO2e:      card.AnnualKgCO2e,
			BehaviorDistance:  card.BehaviorDistance,
			PersonaFit:        datatypes.NewJSONType(PersonaFit(card.PersonaFit)),
		})
	}
	return cards
}

func (s *catalogSeed) legacyActions() []*LegacyAction {
	actions := make([]*LegacyAction, 0, len(s.LegacyActions))
	for _, action := range s.LegacyActions {
		actions = append(actions, &LegacyAction{
			ID:       action.ID,
			Title:    utils.CleanText(action.Title),
			Category: action.Category,
			AnnualKg: action.AnnualKg,
		})
	}
	return actions
}

// initializeRankingPolicy stores the default policy unless an operator already replaced it.
func initializeRankingPolicy(
	ctx context.Context,
	db *gorm.DB,
	repos repositories.Repository,
	log logger.Logger,
) error {
	var existing RankingPolicy
	found, err := repos.AppConfig.Get(ctx, db, RankingPolicyConfigKey, &existing)
	if err != nil {
		return err
	}

	if found {
		log.Debug("Ranking policy already exists", "version", existing.Version)
		return nil
	}

	log.Info("Initializing default ranking policy")
	return repos.AppConfig.Put(ctx, db, RankingPolicyConfigKey, DefaultRankingPolicy())
}
