package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const CompletedActionSourceRecommendation = "recommendation"

// CompletedAction is written once per user, recommendation and engine calendar day.
// The composite unique index is what makes duplicate "done" submissions harmless.
type CompletedAction struct {
	BaseUUIDModel
	UserID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_completed_user_rec_day,priority:1;index:idx_completed_user_day,priority:1" json:"userId"`
	RecommendationID string            `gorm:"type:varchar(64);not null;uniqueIndex:idx_completed_user_rec_day,priority:2" json:"recommendationId"`
	ActionDay        string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_completed_user_rec_day,priority:3;index:idx_completed_user_day,priority:2" json:"actionDay"`
	Rupees           int64             `gorm:"not null;default:0" json:"rupees"`
	CO2Kg            float64           `gorm:"column:co2_kg;not null;default:0" json:"co2Kg"`
	Context          datatypes.JSONMap `gorm:"type:jsonb" json:"context,omitempty"`
	Source           string            `gorm:"type:varchar(32);not null" json:"source"`
	CompletedAt      time.Time         `gorm:"not null" json:"completedAt"`
}
