package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"sinecarbon/internal/database"
	"sinecarbon/internal/events"
	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
	"sinecarbon/internal/testutil"
	"sinecarbon/internal/utils"
)

var engineZone = time.FixedZone("engine", 330*60)

type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

type engineFixture struct {
	ctx         context.Context
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	bus         *events.EventBus
	now         time.Time
	clock       *utils.DayClock
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db := testutil.TestDatabase(t)
	f := &engineFixture{
		ctx:   context.Background(),
		db:    db,
		repos: repositories.New(db),
		bus:   events.New(nil),
		now:   time.Date(2024, 3, 10, 9, 0, 0, 0, engineZone),
	}
	f.transaction = NewTransactionService(db)
	f.clock = utils.NewFixedDayClock(engineZone, func() time.Time { return f.now })
	t.Cleanup(func() { _ = f.bus.Close() })

	return f
}

func (f *engineFixture) advanceDays(days int) {
	f.now = f.now.AddDate(0, 0, days)
}

func (f *engineFixture) rules(ttl time.Duration) *RuleOverlayService {
	return NewRuleOverlayService(f.db, f.repos, f.transaction, f.bus, ttl).
		WithClock(func() time.Time { return f.now })
}

func (f *engineFixture) ranking() *RankingService {
	return NewRankingService(f.db, f.repos, f.rules(time.Minute), f.clock)
}

func (f *engineFixture) recorder(random RandomSource) *ActionRecorderService {
	streaks := NewStreakService(f.repos, f.clock)
	return NewActionRecorderService(f.repos, f.transaction, streaks, f.clock, 0.15).
		WithRandomSource(random)
}

func (f *engineFixture) seedUser(t *testing.T, archetype string) uuid.UUID {
	t.Helper()

	user := &models.User{DisplayName: "Asha", IsActive: true}
	require.NoError(t, f.repos.User.Create(f.ctx, f.db.SQL, user))

	if archetype != "" {
		require.NoError(t, f.repos.Personality.Create(f.ctx, f.db.SQL, &models.PersonalityResult{
			UserID:    user.ID,
			Archetype: archetype,
			TakenAt:   f.now.Add(-24 * time.Hour),
		}))
	}

	return user.ID
}

func (f *engineFixture) seedCards(t *testing.T, cards ...*models.RecommendationCard) {
	t.Helper()
	require.NoError(t, f.repos.Catalog.UpsertCards(f.ctx, f.db.SQL, cards))
}

func (f *engineFixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.SQL.Model(model).Where(where, args...).Count(&count).Error)
	return count
}

func newCard(id, category string, priority int, annualKg float64, tags ...string) *models.RecommendationCard {
	return &models.RecommendationCard{
		ID:                id,
		Category:          category,
		Tags:              datatypes.JSONSlice[string](tags),
		Title:             "Card " + id,
		EditorialPriority: priority,
		AnnualKgCO2e:      annualKg,
	}
}
