package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestUser_ToProfile(t *testing.T) {
	email := "asha@example.com"
	user := &User{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		DisplayName:   "Asha",
		Email:         &email,
		IsAdmin:       true,
	}

	profile := user.ToProfile()
	assert.Equal(t, user.ID.String(), profile.ID)
	assert.Equal(t, "Asha", profile.DisplayName)
	assert.Equal(t, &email, profile.Email)
	assert.True(t, profile.IsAdmin)
}

func TestBaseUUIDModel_BeforeCreate(t *testing.T) {
	model := &BaseUUIDModel{}
	require.NoError(t, model.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, model.ID)
	assert.Equal(t, uuid.Version(7), model.ID.Version())

	existing := uuid.New()
	kept := &BaseUUIDModel{ID: existing}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, existing, kept.ID)
}

func TestOutcome_EventType(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected OutcomeEventType
		valid    bool
	}{
		{OutcomeDone, OutcomeEventDone, true},
		{OutcomeSnooze, OutcomeEventSnooze, true},
		{OutcomeDismiss, OutcomeEventDismiss, true},
		{Outcome("shown"), "", false},
		{Outcome(""), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			eventType, ok := tt.outcome.EventType()
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.expected, eventType)
			assert.Equal(t, tt.valid, tt.outcome.IsValid())
		})
	}
}

func TestRecommendationCard_Matches(t *testing.T) {
	card := &RecommendationCard{
		Category: "energy",
		Tags:     datatypes.JSONSlice[string]{"home", "quick"},
		PersonaFit: datatypes.NewJSONType(PersonaFit{
			"thrifty_saver": 0.9,
		}),
	}

	assert.True(t, card.Matches("energy"))
	assert.True(t, card.Matches("quick"))
	assert.False(t, card.Matches("food"))
	assert.Equal(t, 0.9, card.FitFor("thrifty_saver"))
	assert.Zero(t, card.FitFor("eco_warrior"))
}

func TestRankingPolicy_Classify(t *testing.T) {
	policy := DefaultRankingPolicy()

	assert.Equal(t, TierQuickWin, policy.Classify(4999))
	assert.Equal(t, TierLevelUp, policy.Classify(5000))
	assert.Equal(t, "Quick win", policy.Label(TierQuickWin))
	assert.Equal(t, "unknown", policy.Label(ActionTier("unknown")))

	rule := policy.DefaultRule()
	require.NotNil(t, rule)
	assert.Empty(t, rule.Persona)

	assert.Nil(t, RankingPolicy{}.DefaultRule())
}

func TestUserWeightVector_Dimension(t *testing.T) {
	vector := NewUserWeightVector(uuid.New())

	for _, dim := range AllWeightDimensions {
		ptr := vector.Dimension(dim)
		require.NotNil(t, ptr, dim)
		assert.Equal(t, WeightDefault, *ptr)
	}

	*vector.Dimension(DimensionCarbon) = 1.5
	assert.Equal(t, 1.5, vector.Carbon)
	assert.Equal(t, 1.5, vector.Dimensions()[DimensionCarbon])
	assert.Nil(t, vector.Dimension(WeightDimension("mood")))
	assert.Len(t, vector.Dimensions(), len(AllWeightDimensions))
}
