package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayName(t *testing.T) {
	for _, d := range WeekDays {
		assert.Equal(t, d, DayNameOf(d.Weekday()))
		assert.True(t, d.Valid())
	}
	assert.Equal(t, time.Sunday, Sunday.Weekday())
	assert.Equal(t, 0, Monday.Index())
	assert.Equal(t, 6, Sunday.Index())
	assert.False(t, DayName("Funday").Valid())

	d, err := ParseDayName(" tue ")
	require.NoError(t, err)
	assert.Equal(t, Tuesday, d)

	_, err = ParseDayName("Tues")
	assert.Error(t, err)
}
