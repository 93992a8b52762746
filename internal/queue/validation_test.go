package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateReschedule(t *testing.T) {
	now := time.Date(2026, 11, 30, 10, 0, 0, 0, time.UTC)
	today := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		date  time.Time
		clock string
		now   time.Time
		want  Validation
	}{
		{name: "missing date", clock: "10:00", now: now, want: Validation{Message: MsgSelectDate}},
		{name: "missing time", date: today, now: now, want: Validation{Message: MsgSelectTime}},
		{name: "malformed time", date: today, clock: "25:00", now: now, want: Validation{Message: MsgInvalidTime}},
		{name: "short time", date: today, clock: "9:00", now: now, want: Validation{Message: MsgInvalidTime}},
		{name: "yesterday", date: today.AddDate(0, 0, -1), clock: "23:00", now: now, want: Validation{Message: MsgPastDate}},
		{name: "today later", date: today, clock: "12:00", now: now, want: Validation{Valid: true}},
		{name: "exactly six minutes", date: today, clock: "10:05", now: now, want: Validation{Valid: true}},
		{
			name:  "one second short",
			date:  today,
			clock: "10:05",
			now:   now.Add(time.Second),
			want:  Validation{Message: "Please select a time after 10:06."},
		},
		{
			name:  "earlier today",
			date:  today,
			clock: "09:00",
			now:   now,
			want:  Validation{Message: "Please select a time after 10:06."},
		},
		{name: "tomorrow early", date: today.AddDate(0, 0, 1), clock: "00:01", now: now, want: Validation{Valid: true}},
		{name: "today date with late evening", date: today.Add(15 * time.Hour), clock: "22:00", now: now, want: Validation{Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateReschedule(tt.date, tt.clock, tt.now)
			assert.Equal(t, tt.want, got)
			// чистая функция
			assert.Equal(t, got, ValidateReschedule(tt.date, tt.clock, tt.now))
		})
	}
}

func TestCombineDateClock(t *testing.T) {
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	at, err := CombineDateClock(date, "14:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 14, 0, 0, 0, time.UTC), at)

	_, err = CombineDateClock(date, "14")
	assert.Error(t, err)
}
