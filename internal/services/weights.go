package services

import (
	"math"

	"sinecarbon/internal/models"
)

// TopUtilityDimension is the dimension a completed action reinforces. Every card maps to
// carbon until a per-card classifier exists.
const TopUtilityDimension = models.DimensionCarbon

const (
	doneTopUtilityNudge = 0.05
	doneEffortNudge     = -0.02
	doneEffortFloor     = 0.8
	dismissFitNudge     = -0.03
	dismissNoveltyNudge = -0.02
	dismissRecencyNudge = 0.05
	snoozeRecencyNudge  = 0.08
)

// topUtilityDimension picks the dimension a card is strongest on.
func topUtilityDimension(*models.RecommendationCard) models.WeightDimension {
	return TopUtilityDimension
}

// ApplyOutcome nudges the weight vector for one outcome and clamps every dimension back
// into [WeightMin, WeightMax].
func ApplyOutcome(vector *models.UserWeightVector, outcome models.Outcome, top models.WeightDimension) {
	switch outcome {
	case models.OutcomeDone:
		if dim := vector.Dimension(top); dim != nil {
			*dim += doneTopUtilityNudge
		}
		if vector.Effort > doneEffortFloor {
			vector.Effort = math.Max(doneEffortFloor, vector.Effort+doneEffortNudge)
		}
	case models.OutcomeDismiss:
		vector.Fit += dismissFitNudge
		vector.Novelty += dismissNoveltyNudge
		vector.Recency += dismissRecencyNudge
	case models.OutcomeSnooze:
		vector.Recency += snoozeRecencyNudge
	}

	for _, dim := range models.AllWeightDimensions {
		value := vector.Dimension(dim)
		*value = clampWeight(*value)
	}
}

func clampWeight(value float64) float64 {
	if math.IsNaN(value) {
		return models.WeightDefault
	}
	return math.Min(models.WeightMax, math.Max(models.WeightMin, value))
}
