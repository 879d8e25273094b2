package services

import (
	"github.com/shopspring/decimal"

	"sinecarbon/internal/models"
)

// Impact is the verified benefit of one completed action.
type Impact struct {
	Rupees int64   `json:"rupees"`
	CO2Kg  float64 `json:"co2Kg"`
}

// WeeklyImpact converts an annual footprint into one week's worth of impact. Rupees are
// derived from the unrounded weekly figure; the reported carbon is rounded to 3 places.
func WeeklyImpact(annualKg float64, meta models.CatalogMeta) Impact {
	weekly := decimal.NewFromFloat(annualKg).Div(decimal.NewFromFloat(meta.WeeksPerYear))

	return Impact{
		Rupees: weekly.Mul(decimal.NewFromFloat(meta.RupeesPerWeeklyKg)).Round(0).IntPart(),
		CO2Kg:  weekly.Round(3).InexactFloat64(),
	}
}

// AnnualRupees is the monetary value shown on ranking cards.
func AnnualRupees(annualKg float64, meta models.CatalogMeta) int64 {
	return decimal.NewFromFloat(annualKg).
		Mul(decimal.NewFromFloat(meta.RupeesPerAnnualKg)).
		Round(0).
		IntPart()
}

// DailyCO2 spreads the annual footprint over a year of days.
func DailyCO2(annualKg float64, meta models.CatalogMeta) float64 {
	return decimal.NewFromFloat(annualKg).
		Div(decimal.NewFromFloat(meta.DaysPerYear)).
		InexactFloat64()
}
