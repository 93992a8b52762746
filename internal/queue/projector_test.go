package queue

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjector_Memoises(t *testing.T) {
	ctx := context.Background()
	repo := newFakePostRepo(scheduledPost("p1", time.Date(2026, 11, 30, 13, 0, 0, 0, time.UTC)))
	posts := newTestCache(repo)
	store := NewTimeslotStore("client-1", &fakeTimeslotRepo{cfg: mondayConfig()})

	p := NewProjector("client-1", ClientInfo{Name: "Acme"}, posts, store)

	first := p.Project(monday, EmptySlotsVisible, nil)
	assert.False(t, first.Initialized)

	require.NoError(t, posts.Init(ctx))
	_, err := store.Fetch(ctx)
	require.NoError(t, err)

	a := p.Project(monday, EmptySlotsVisible, nil)
	require.True(t, a.Initialized)
	runs := p.Runs()

	b := p.Project(monday.Add(time.Hour), EmptySlotsVisible, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, runs, p.Runs())

	p.Project(monday, EmptySlotsHidden, nil)
	assert.Equal(t, runs+1, p.Runs())

	_, err = posts.OptimisticallyRemovePost("p1")
	require.NoError(t, err)
	c := p.Project(monday, EmptySlotsHidden, nil)
	assert.Equal(t, runs+2, p.Runs())
	assert.Empty(t, c.QueueSlots())

	p.Project(monday, EmptySlotsHidden, DayDetailStatuses)
	assert.Equal(t, runs+3, p.Runs())

	p.SetClient(ClientInfo{Name: "Other"})
	p.Project(monday, EmptySlotsHidden, DayDetailStatuses)
	assert.Equal(t, runs+4, p.Runs())

	p.Invalidate()
	p.Project(monday, EmptySlotsHidden, DayDetailStatuses)
	assert.Equal(t, runs+5, p.Runs())
}

func TestTimeslotStore(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTimeslotRepo{cfg: mondayConfig()}
	store := NewTimeslotStore("client-1", repo)
	assert.False(t, store.Snapshot().Initialized)

	snap, err := store.Fetch(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Initialized)
	assert.True(t, snap.Configured())
	assert.Equal(t, []model.DayName{model.Monday}, snap.ActiveDays)
	assert.Equal(t, []string{"09:00", "13:00"}, snap.PredefinedTimes)

	err = store.Update(ctx, model.TimeslotConfig{model.Tuesday: {}})
	assert.ErrorIs(t, err, ErrNoActiveTimeslots)

	err = store.Update(ctx, model.TimeslotConfig{model.Tuesday: {"7:00": nil}})
	assert.Error(t, err)

	next := model.TimeslotConfig{model.Friday: {"18:00": nil}}
	require.NoError(t, store.Update(ctx, next))
	assert.Equal(t, next, repo.saved)
	assert.Equal(t, []model.DayName{model.Friday}, store.Snapshot().ActiveDays)
}

func TestTimeslotStore_FetchFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTimeslotRepo{cfg: mondayConfig()}
	store := NewTimeslotStore("client-1", repo)
	_, err := store.Fetch(ctx)
	require.NoError(t, err)

	repo.err = assert.AnError
	snap, err := store.Fetch(ctx)
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, snap.Initialized)
	assert.Equal(t, []string{"09:00", "13:00"}, snap.PredefinedTimes)
}
