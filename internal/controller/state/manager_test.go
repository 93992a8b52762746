package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_DialogLifecycle(t *testing.T) {
	sm := NewManager()
	assert.Equal(t, StateNone, sm.GetState(1))

	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	sm.Set(1, Dialog{State: StateRescheduleTime, PostID: "p1", Date: date})

	d, ok := sm.Get(1)
	require.True(t, ok)
	assert.Equal(t, StateRescheduleTime, d.State)
	assert.Equal(t, "p1", d.PostID)
	assert.True(t, d.Date.Equal(date))
	assert.False(t, d.StartedAt.IsZero())

	sm.ClearState(1)
	_, ok = sm.Get(1)
	assert.False(t, ok)
}

func TestManager_SetNoneClears(t *testing.T) {
	sm := NewManager()
	sm.Set(1, Dialog{State: StateTimeslotsInput})
	sm.Set(1, Dialog{State: StateNone})

	_, ok := sm.Get(1)
	assert.False(t, ok)
}

func TestManager_Expire(t *testing.T) {
	now := time.Date(2026, 11, 30, 12, 0, 0, 0, time.UTC)
	sm := NewManager()
	sm.now = func() time.Time { return now }

	sm.Set(1, Dialog{State: StateTimeslotsInput, StartedAt: now.Add(-3 * time.Hour)})
	sm.Set(2, Dialog{State: StateRescheduleTime})

	assert.Equal(t, 1, sm.Expire(time.Hour))
	assert.Equal(t, StateNone, sm.GetState(1))
	assert.Equal(t, StateRescheduleTime, sm.GetState(2))
}
