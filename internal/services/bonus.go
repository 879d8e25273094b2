package services

import "math/rand/v2"

const (
	BonusXP    = 25
	BonusLabel = "Lucky Leaf"
)

type Bonus struct {
	XP    int    `json:"xp"`
	Label string `json:"label"`
}

// RandomSource yields values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalRandom struct{}

func (globalRandom) Float64() float64 {
	return rand.Float64()
}

func rollBonus(random RandomSource, chance float64) *Bonus {
	if random.Float64() >= chance {
		return nil
	}
	return &Bonus{XP: BonusXP, Label: BonusLabel}
}
