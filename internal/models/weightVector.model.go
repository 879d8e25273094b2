package models

import (
	"github.com/google/uuid"
)

type WeightDimension string

const (
	DimensionCurrency  WeightDimension = "currency"
	DimensionTime      WeightDimension = "time"
	DimensionCarbon    WeightDimension = "carbon"
	DimensionEffort    WeightDimension = "effort"
	DimensionNovelty   WeightDimension = "novelty"
	DimensionRecency   WeightDimension = "recency"
	DimensionDiversity WeightDimension = "diversity"
	DimensionFit       WeightDimension = "fit"
)

const (
	WeightMin     = 0.5
	WeightMax     = 2.0
	WeightDefault = 1.0
)

// UserWeightVector holds a user's learned multipliers over the utility dimensions.
// Every dimension stays within [WeightMin, WeightMax].
type UserWeightVector struct {
	BaseUUIDModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Currency  float64   `gorm:"not null;default:1" json:"currency"`
	Time      float64   `gorm:"not null;default:1" json:"time"`
	Carbon    float64   `gorm:"not null;default:1" json:"carbon"`
	Effort    float64   `gorm:"not null;default:1" json:"effort"`
	Novelty   float64   `gorm:"not null;default:1" json:"novelty"`
	Recency   float64   `gorm:"not null;default:1" json:"recency"`
	Diversity float64   `gorm:"not null;default:1" json:"diversity"`
	Fit       float64   `gorm:"not null;default:1" json:"fit"`
}

func NewUserWeightVector(userID uuid.UUID) *UserWeightVector {
	return &UserWeightVector{
		UserID:    userID,
		Currency:  WeightDefault,
		Time:      WeightDefault,
		Carbon:    WeightDefault,
		Effort:    WeightDefault,
		Novelty:   WeightDefault,
		Recency:   WeightDefault,
		Diversity: WeightDefault,
		Fit:       WeightDefault,
	}
}

// Dimension returns a pointer to the named dimension, nil for unknown names.
func (w *UserWeightVector) Dimension(dim WeightDimension) *float64 {
	switch dim {
	case DimensionCurrency:
		return &w.Currency
	case DimensionTime:
		return &w.Time
	case DimensionCarbon:
		return &w.Carbon
	case DimensionEffort:
		return &w.Effort
	case DimensionNovelty:
		return &w.Novelty
	case DimensionRecency:
		return &w.Recency
	case DimensionDiversity:
		return &w.Diversity
	case DimensionFit:
		return &w.Fit
	}
	return nil
}

func (w *UserWeightVector) Dimensions() map[WeightDimension]float64 {
	return map[WeightDimension]float64{
		DimensionCurrency:  w.Currency,
		DimensionTime:      w.Time,
		DimensionCarbon:    w.Carbon,
		DimensionEffort:    w.Effort,
		DimensionNovelty:   w.Novelty,
		DimensionRecency:   w.Recency,
		DimensionDiversity: w.Diversity,
		DimensionFit:       w.Fit,
	}
}

// AllWeightDimensions lists the dimensions in storage order.
var AllWeightDimensions = []WeightDimension{
	DimensionCurrency,
	DimensionTime,
	DimensionCarbon,
	DimensionEffort,
	DimensionNovelty,
	DimensionRecency,
	DimensionDiversity,
	DimensionFit,
}
