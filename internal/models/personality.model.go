package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalityResult is one completed personality quiz. The newest row per user is the
// archetype the ranking engine uses.
type PersonalityResult struct {
	BaseUUIDModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_personality_user_taken,priority:1" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Archetype string    `gorm:"type:varchar(64);not null" json:"archetype"`
	TakenAt   time.Time `gorm:"not null;index:idx_personality_user_taken,priority:2" json:"takenAt"`
}
