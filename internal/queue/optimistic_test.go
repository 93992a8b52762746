package queue

import (
	"testing"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, UpdateClean, tr.State("p1"))
	_, ok := tr.Commit("p1", 1)
	assert.False(t, ok)

	drafted := model.Drafted
	before := model.ScheduledPost{ID: "p1", Status: model.Scheduled}
	id := tr.Begin("p1", &before, model.PostPatch{Status: &drafted})
	before.Status = model.Error
	assert.True(t, tr.Pending("p1"))

	value, ok := tr.Rollback("p1", id)
	require.True(t, ok)
	require.NotNil(t, value)
	assert.Equal(t, model.Scheduled, value.Status, "snapshot is a copy")
	assert.Equal(t, UpdateRolledBack, tr.State("p1"))

	id = tr.Begin("p1", value, model.PostPatch{Status: &drafted})
	value, ok = tr.Commit("p1", id)
	require.True(t, ok)
	assert.Equal(t, model.Drafted, value.Status)
	assert.Equal(t, UpdateCommitted, tr.State("p1"))
	_, ok = tr.Rollback("p1", id)
	assert.False(t, ok)
}

func TestTracker_OverlappingOperations(t *testing.T) {
	tr := NewTracker()
	approved, posted := model.Approved, model.Posted
	prior := model.ScheduledPost{ID: "p1", Status: model.Scheduled}

	a := tr.Begin("p1", &prior, model.PostPatch{Status: &approved})
	afterA := model.PostPatch{Status: &approved}.Apply(prior)
	b := tr.Begin("p1", &afterA, model.PostPatch{Status: &posted})
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, tr.InFlight("p1"))

	value, ok := tr.Commit("p1", a)
	require.True(t, ok)
	assert.Equal(t, model.Posted, value.Status, "B is still applied on top")
	assert.True(t, tr.Pending("p1"))
	assert.Equal(t, UpdatePending, tr.State("p1"))

	value, ok = tr.Rollback("p1", b)
	require.True(t, ok)
	assert.Equal(t, model.Approved, value.Status, "back to the committed value")
	assert.False(t, tr.Pending("p1"))
	assert.Equal(t, UpdateRolledBack, tr.State("p1"))
}

func TestTracker_RemoveAndRollbackPost(t *testing.T) {
	tr := NewTracker()
	prior := model.ScheduledPost{ID: "p1", Title: "first"}

	tr.BeginRemove("p1", &prior)
	tr.Begin("p2", nil, model.PostPatch{})
	assert.Equal(t, []string{"p1", "p2"}, tr.PendingIDs())

	value, ok := tr.RollbackPost("p1")
	require.True(t, ok)
	assert.Equal(t, "first", value.Title)

	value, ok = tr.RollbackPost("p2")
	assert.True(t, ok)
	assert.Nil(t, value)
	assert.Empty(t, tr.PendingIDs())
}

func TestUpdateStateString(t *testing.T) {
	assert.Equal(t, "clean", UpdateClean.String())
	assert.Equal(t, "pending", UpdatePending.String())
	assert.Equal(t, "committed", UpdateCommitted.String())
	assert.Equal(t, "rolled_back", UpdateRolledBack.String())
}
