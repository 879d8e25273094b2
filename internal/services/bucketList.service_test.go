package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sinecarbon/internal/models"
	"sinecarbon/internal/repositories"
)

type failingEventLog struct {
	repositories.OutcomeEventRepository
}

func (failingEventLog) ListByTypes(
	context.Context,
	*gorm.DB,
	uuid.UUID,
	[]models.OutcomeEventType,
) ([]*models.OutcomeEvent, error) {
	return nil, errors.New("event log offline")
}

func (f *engineFixture) appendEvent(
	t *testing.T,
	userID uuid.UUID,
	recommendationID string,
	eventType models.OutcomeEventType,
	at time.Time,
) {
	t.Helper()
	require.NoError(t, f.repos.OutcomeEvent.Append(f.ctx, f.db.SQL, &models.OutcomeEvent{
		UserID:           userID,
		RecommendationID: recommendationID,
		EventType:        eventType,
		OccurredAt:       at.UTC(),
	}))
}

func TestGetBucketList_StatusResolution(t *testing.T) {
	f := newEngineFixture(t)
	userID := f.seedUser(t, "")
	f.seedCards(t, newCard("solar-water-heater", "energy", 0, 1000))

	t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t1.Add(time.Hour)
	f.appendEvent(t, userID, "solar-water-heater", models.OutcomeEventShown, t0)
	f.appendEvent(t, userID, "solar-water-heater", models.OutcomeEventSnooze, t1)
	f.appendEvent(t, userID, "solar-water-heater", models.OutcomeEventDone, t2)

	list := NewBucketListService(f.db, f.repos).GetBucketList(f.ctx, userID)
	require.Len(t, list.Items, 1)

	item := list.Items[0]
	assert.Equal(t, BucketStatusDone, item.Status)
	assert.True(t, t1.Equal(item.AddedAt), "addedAt %s", item.AddedAt)
	assert.True(t, t2.Equal(item.LastUpdatedAt), "lastUpdatedAt %s", item.LastUpdatedAt)
	assert.Equal(t, "Card solar-water-heater", item.Title)
	assert.Equal(t, BucketImpact{MonthlyRupees: 1442, CO2Kg: 19.231}, item.Impact)
	assert.False(t, item.Legacy)

	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.DoneCount)
	assert.Equal(t, 0, list.SnoozedCount)
}

func TestGetBucketList_LegacyFallbackAndOrdering(t *testing.T) {
	f := newEngineFixture(t)
	userID := f.seedUser(t, "")
	f.seedCards(t,
		newCard("led-bulbs", "energy", 0, 104),
		newCard("bike-commute", "transport", 0, 520),
	)
	require.NoError(t, f.repos.Catalog.UpsertLegacyActions(f.ctx, f.db.SQL, []*models.LegacyAction{
		{ID: "legacy-rainwater", Title: "Harvest rainwater", Category: "water", AnnualKg: 52},
	}))

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	f.appendEvent(t, userID, "led-bulbs", models.OutcomeEventDone, base)
	f.appendEvent(t, userID, "legacy-rainwater", models.OutcomeEventSnooze, base.Add(time.Hour))
	f.appendEvent(t, userID, "retired-card", models.OutcomeEventDone, base.Add(2*time.Hour))
	f.appendEvent(t, userID, "bike-commute", models.OutcomeEventDone, base.Add(3*time.Hour))
	f.appendEvent(t, userID, "bike-commute", models.OutcomeEventSnooze, base.Add(4*time.Hour))
	f.appendEvent(t, userID, "led-bulbs", models.OutcomeEventDismiss, base.Add(5*time.Hour))

	list := NewBucketListService(f.db, f.repos).GetBucketList(f.ctx, userID)
	require.Len(t, list.Items, 3)

	assert.Equal(t, "bike-commute", list.Items[0].RecommendationID)
	assert.Equal(t, BucketStatusSnoozed, list.Items[0].Status)
	assert.True(t, base.Add(3*time.Hour).Equal(list.Items[0].AddedAt))

	assert.Equal(t, "legacy-rainwater", list.Items[1].RecommendationID)
	assert.True(t, list.Items[1].Legacy)
	assert.Equal(t, "Harvest rainwater", list.Items[1].Title)
	assert.Equal(t, BucketImpact{MonthlyRupees: 75, CO2Kg: 1}, list.Items[1].Impact)

	// The later dismiss does not count towards the bucket list.
	assert.Equal(t, "led-bulbs", list.Items[2].RecommendationID)
	assert.Equal(t, BucketStatusDone, list.Items[2].Status)
	assert.Equal(t, BucketImpact{MonthlyRupees: 150, CO2Kg: 2}, list.Items[2].Impact)

	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 1, list.DoneCount)
	assert.Equal(t, 2, list.SnoozedCount)
}

func TestGetBucketList_EmptyForNewUser(t *testing.T) {
	f := newEngineFixture(t)
	userID := f.seedUser(t, "")

	list := NewBucketListService(f.db, f.repos).GetBucketList(f.ctx, userID)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
	assert.Equal(t, 0, list.Total)
}

func TestGetBucketList_DegradesOnEventLogFailure(t *testing.T) {
	f := newEngineFixture(t)
	userID := f.seedUser(t, "")
	f.repos.OutcomeEvent = failingEventLog{f.repos.OutcomeEvent}

	list := NewBucketListService(f.db, f.repos).GetBucketList(f.ctx, userID)
	assert.Equal(t, emptyBucketList(), list)
}

func TestGroupByRecommendation(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	history := []*models.OutcomeEvent{
		{RecommendationID: "a", EventType: models.OutcomeEventDone, OccurredAt: base.Add(3 * time.Hour)},
		{RecommendationID: "b", EventType: models.OutcomeEventSnooze, OccurredAt: base.Add(2 * time.Hour)},
		{RecommendationID: "a", EventType: models.OutcomeEventSnooze, OccurredAt: base.Add(time.Hour)},
		{RecommendationID: "a", EventType: models.OutcomeEventSnooze, OccurredAt: base},
	}

	groups := groupByRecommendation(history)
	require.Len(t, groups, 2)

	assert.Equal(t, "a", groups[0].id)
	assert.Equal(t, models.OutcomeEventDone, groups[0].latest.EventType)
	assert.Equal(t, base, groups[0].earliest)
	assert.Equal(t, "b", groups[1].id)
}
