package models

import (
	"github.com/google/uuid"
)

type UserStreak struct {
	BaseUUIDModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	CurrentDays   int       `gorm:"not null;default:0" json:"currentDays"`
	LongestDays   int       `gorm:"not null;default:0" json:"longestDays"`
	LastActionDay string    `gorm:"type:varchar(10)" json:"lastActionDay"`
}
