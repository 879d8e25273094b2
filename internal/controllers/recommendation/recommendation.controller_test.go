package recommendationController

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutcome(t *testing.T) {
	tests := []struct {
		name             string
		recommendationID string
		outcome          string
		wantErr          bool
	}{
		{name: "done", recommendationID: "led-bulbs", outcome: "done"},
		{name: "snooze", recommendationID: "led-bulbs", outcome: "snooze"},
		{name: "dismiss", recommendationID: "led-bulbs", outcome: "dismiss"},
		{name: "unknown outcome", recommendationID: "led-bulbs", outcome: "later", wantErr: true},
		{name: "wrong case", recommendationID: "led-bulbs", outcome: "DONE", wantErr: true},
		{name: "empty outcome", recommendationID: "led-bulbs", outcome: "", wantErr: true},
		{name: "missing id", recommendationID: "", outcome: "done", wantErr: true},
		{name: "nul in id", recommendationID: "led\x00bulbs", outcome: "done", wantErr: true},
		{name: "oversized id", recommendationID: strings.Repeat("x", 65), outcome: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOutcome(tt.recommendationID, OutcomeRequest{Outcome: tt.outcome})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
