package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRescheduleInput(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	dialogDate := time.Date(2026, 12, 1, 0, 0, 0, 0, loc)

	tests := []struct {
		name      string
		input     string
		wantDate  time.Time
		wantClock string
		wantErr   bool
	}{
		{name: "time only keeps dialog date", input: "14:30", wantDate: dialogDate, wantClock: "14:30"},
		{name: "single digit hour", input: " 9:05 ", wantDate: dialogDate, wantClock: "09:05"},
		{name: "date and time", input: "2026-12-24 18:00", wantDate: time.Date(2026, 12, 24, 0, 0, 0, 0, loc), wantClock: "18:00"},
		{name: "bad time", input: "25:00", wantErr: true},
		{name: "bad date", input: "24.12.2026 18:00", wantErr: true},
		{name: "words", input: "tomorrow at noon", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, clock, err := parseRescheduleInput(tt.input, dialogDate, loc)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRescheduleInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantDate.Equal(date), "date %s", date)
			assert.Equal(t, tt.wantClock, clock)
		})
	}
}
