package models

import (
	"time"

	"github.com/google/uuid"
)

type OutcomeEventType string

const (
	OutcomeEventShown   OutcomeEventType = "SHOWN"
	OutcomeEventDone    OutcomeEventType = "DONE"
	OutcomeEventDismiss OutcomeEventType = "DISMISS"
	OutcomeEventSnooze  OutcomeEventType = "SNOOZE"
)

// OutcomeEvent is an append-only record of how a user responded to a recommendation.
// Several events per (user, recommendation) are expected; the newest wins.
type OutcomeEvent struct {
	BaseUUIDModel
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_outcome_events_user_occurred,priority:1" json:"userId"`
	RecommendationID string           `gorm:"type:varchar(64);not null;index" json:"recommendationId"`
	EventType        OutcomeEventType `gorm:"type:varchar(16);not null;index" json:"eventType"`
	OccurredAt       time.Time        `gorm:"not null;index:idx_outcome_events_user_occurred,priority:2" json:"occurredAt"`
}

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSnooze  Outcome = "snooze"
	OutcomeDismiss Outcome = "dismiss"
)

// EventType maps a submitted outcome onto the event log vocabulary.
func (o Outcome) EventType() (OutcomeEventType, bool) {
	switch o {
	case OutcomeDone:
		return OutcomeEventDone, true
	case OutcomeSnooze:
		return OutcomeEventSnooze, true
	case OutcomeDismiss:
		return OutcomeEventDismiss, true
	}
	return "", false
}

func (o Outcome) IsValid() bool {
	_, ok := o.EventType()
	return ok
}
