package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

// PersonaFit maps a personality archetype to how well a card suits it.
type PersonaFit map[string]float64

// RecommendationCard is a catalog entry. The engine never writes to it.
type RecommendationCard struct {
	ID                string                         `gorm:"type:varchar(64);primaryKey" json:"id"`
	Category          string                         `gorm:"type:varchar(32);not null;index" json:"category"`
	Tags              datatypes.JSONSlice[string]    `gorm:"type:jsonb" json:"tags"`
	Title             string                         `gorm:"type:text;not null" json:"title"`
	Description       string                         `gorm:"type:text" json:"description"`
	EditorialPriority int                            `gorm:"type:int;not null;default:0" json:"editorialPriority"`
	AnnualKgCO2e      float64                        `gorm:"column:annual_kg_co2e;not null" json:"annualKgCo2e"`
	PersonaFit        datatypes.JSONType[PersonaFit] `gorm:"type:jsonb" json:"personaFit"`
	BehaviorDistance  string                         `gorm:"type:varchar(32)" json:"behaviorDistance"`
	CreatedAt         time.Time                      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Matches reports whether the card belongs to a category tag, either through its
// category or through one of its tags.
func (c *RecommendationCard) Matches(tag string) bool {
	if c.Category == tag {
		return true
	}
	return slices.Contains([]string(c.Tags), tag)
}

// FitFor returns the persona fit weight, 0 when the persona is unknown to the card.
func (c *RecommendationCard) FitFor(persona string) float64 {
	return c.PersonaFit.Data()[persona]
}

// LegacyAction is the older action catalog that predates recommendation cards. It is only
// consulted to label bucket-list entries the current catalog no longer knows about.
type LegacyAction struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Category  string    `gorm:"type:varchar(32)" json:"category"`
	AnnualKg  float64   `gorm:"not null" json:"annualKg"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// CatalogMeta holds the impact conversion constants that ship with the catalog.
type CatalogMeta struct {
	RupeesPerAnnualKg float64 `json:"rupeesPerAnnualKg"`
	RupeesPerWeeklyKg float64 `json:"rupeesPerWeeklyKg"`
	WeeksPerYear      float64 `json:"weeksPerYear"`
	DaysPerYear       float64 `json:"daysPerYear"`
}

func DefaultCatalogMeta() CatalogMeta {
	return CatalogMeta{
		RupeesPerAnnualKg: 20,
		RupeesPerWeeklyKg: 75,
		WeeksPerYear:      52,
		DaysPerYear:       365,
	}
}
