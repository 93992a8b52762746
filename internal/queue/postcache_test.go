package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(repo *fakePostRepo) *PostCache {
	return NewPostCache("client-1", repo, monday, zap.NewNop())
}

func TestPostCache_InitLoadsDefaultWindow(t *testing.T) {
	repo := newFakePostRepo(
		scheduledPost("nov", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)),
		scheduledPost("dec", time.Date(2026, 12, 7, 9, 0, 0, 0, time.UTC)),
		scheduledPost("jan", time.Date(2027, 1, 4, 9, 0, 0, 0, time.UTC)),
	)
	c := newTestCache(repo)
	assert.False(t, c.Initialized())

	require.NoError(t, c.Init(context.Background()))

	assert.True(t, c.Initialized())
	assert.Equal(t, []string{"2026-11", "2026-12"}, c.Window().Strings())
	posts := c.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "nov", posts[0].ID)
	assert.Equal(t, "dec", posts[1].ID)
}

func TestPostCache_FailedMonthStaysMissing(t *testing.T) {
	repo := newFakePostRepo(scheduledPost("dec", time.Date(2026, 12, 7, 9, 0, 0, 0, time.UTC)))
	repo.setFail("2026-12", errors.New("boom"))
	c := newTestCache(repo)

	err := c.Init(context.Background())
	require.Error(t, err)
	assert.True(t, c.Initialized())
	assert.True(t, c.Fetched(MonthKey{Year: 2026, Month: time.November}))
	assert.False(t, c.Fetched(MonthKey{Year: 2026, Month: time.December}))
	assert.Equal(t, 2, c.Window().Len())
	assert.Empty(t, c.Posts())

	repo.setFail("2026-12", nil)
	require.NoError(t, c.RetryMissing(context.Background()))
	assert.Len(t, c.Posts(), 1)
	assert.Equal(t, 1, repo.callsFor("2026-11"))
}

func TestPostCache_LoadMoreIsIdempotentPerMonth(t *testing.T) {
	repo := newFakePostRepo()
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	jan := MonthKey{Year: 2027, Month: time.January}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.EnsureMonth(context.Background(), jan))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, repo.callsFor("2027-01"))
	assert.Equal(t, []string{"2026-11", "2026-12", "2027-01"}, c.Window().Strings())

	m, err := c.LoadMoreMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2027-02", m.String())
	require.NoError(t, c.EnsureMonth(context.Background(), m))
	assert.Equal(t, []string{"2026-11", "2026-12", "2027-01", "2027-02"}, c.Window().Strings())
	assert.Equal(t, 1, repo.callsFor("2027-02"))

	m, err = c.LoadPreviousMonths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10", m.String())
}

func TestPostCache_OptimisticUpdateAndRollback(t *testing.T) {
	at := time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)
	repo := newFakePostRepo(scheduledPost("p1", at))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	moved := time.Date(2026, 12, 1, 14, 0, 0, 0, time.UTC)
	first, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ScheduledAt: model.TimestampPtr(moved)})
	require.NoError(t, err)
	assert.True(t, c.Pending("p1"))

	second := time.Date(2026, 12, 2, 14, 0, 0, 0, time.UTC)
	secondID, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ScheduledAt: model.TimestampPtr(second)})
	require.NoError(t, err)
	assert.Equal(t, 2, c.InFlight("p1"))

	p, ok := c.Post("p1")
	require.True(t, ok)
	got, _ := p.ScheduledTime()
	assert.Equal(t, second, got)

	// откат второй операции оставляет первую
	assert.True(t, c.RollbackOptimisticUpdate("p1", secondID))
	p, _ = c.Post("p1")
	got, _ = p.ScheduledTime()
	assert.Equal(t, moved, got)
	assert.True(t, c.Pending("p1"))

	assert.True(t, c.RollbackOptimisticUpdate("p1", first))
	p, _ = c.Post("p1")
	got, _ = p.ScheduledTime()
	assert.Equal(t, at, got)
	assert.Equal(t, UpdateRolledBack, c.UpdateState("p1"))
	assert.False(t, c.RollbackOptimisticUpdate("p1", first))

	_, err = c.OptimisticallyUpdatePost("missing", model.PostPatch{})
	assert.ErrorIs(t, err, ErrPostNotCached)
}

func TestPostCache_OverlappingUpdatesStayPending(t *testing.T) {
	at := time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)
	repo := newFakePostRepo(scheduledPost("p1", at))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	aAt := time.Date(2026, 12, 1, 14, 0, 0, 0, time.UTC)
	bAt := time.Date(2026, 12, 2, 14, 0, 0, 0, time.UTC)
	a, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ScheduledAt: model.TimestampPtr(aAt)})
	require.NoError(t, err)
	b, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ScheduledAt: model.TimestampPtr(bAt)})
	require.NoError(t, err)

	// запись A дошла до сервера, B ещё в полёте
	repo.mu.Lock()
	repo.posts = []model.ScheduledPost{scheduledPost("p1", aAt)}
	repo.mu.Unlock()
	require.True(t, c.ClearOptimisticUpdate("p1", a))
	assert.True(t, c.Pending("p1"))
	assert.Equal(t, UpdatePending, c.UpdateState("p1"))

	require.NoError(t, c.Refetch(context.Background()))
	p, _ := c.Post("p1")
	got, _ := p.ScheduledTime()
	assert.Equal(t, bAt, got, "refetch keeps the in-flight value")

	// запись B упала: пост возвращается к подтверждённому значению A
	require.True(t, c.RollbackOptimisticUpdate("p1", b))
	p, _ = c.Post("p1")
	got, _ = p.ScheduledTime()
	assert.Equal(t, aAt, got)
	assert.False(t, c.Pending("p1"))
	assert.Equal(t, UpdateRolledBack, c.UpdateState("p1"))
}

func TestPostCache_RemoveRollbackReinserts(t *testing.T) {
	repo := newFakePostRepo(scheduledPost("p1", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	_, err := c.OptimisticallyRemovePost("p1")
	require.NoError(t, err)
	_, ok := c.Post("p1")
	assert.False(t, ok)
	assert.Equal(t, []string{"p1"}, c.PendingIDs())

	assert.Equal(t, 1, c.RollbackAll())
	_, ok = c.Post("p1")
	assert.True(t, ok)
	assert.Empty(t, c.PendingIDs())
}

func TestPostCache_RefetchDropsUnscheduledPosts(t *testing.T) {
	at := time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)
	repo := newFakePostRepo(scheduledPost("p1", at))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	drafted := model.Drafted
	id, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ClearSchedule: true, Status: &drafted})
	require.NoError(t, err)

	repo.mu.Lock()
	repo.posts = nil
	repo.mu.Unlock()

	require.NoError(t, c.Refetch(context.Background()))
	_, ok := c.Post("p1")
	assert.True(t, ok, "pending post survives refetch")

	require.True(t, c.ClearOptimisticUpdate("p1", id))
	require.NoError(t, c.Refetch(context.Background()))
	_, ok = c.Post("p1")
	assert.False(t, ok)
}

func TestPostCache_RefetchKeepsPendingPosts(t *testing.T) {
	at := time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)
	repo := newFakePostRepo(
		scheduledPost("p1", at),
		scheduledPost("p2", at.Add(time.Hour)),
	)
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	moved := time.Date(2026, 12, 3, 9, 0, 0, 0, time.UTC)
	id, err := c.OptimisticallyUpdatePost("p1", model.PostPatch{ScheduledAt: model.TimestampPtr(moved)})
	require.NoError(t, err)

	// p2 удалили на сервере, появился p3
	repo.mu.Lock()
	repo.posts = []model.ScheduledPost{scheduledPost("p1", at), scheduledPost("p3", at.Add(2*time.Hour))}
	repo.mu.Unlock()

	require.NoError(t, c.Refetch(context.Background()))

	p1, ok := c.Post("p1")
	require.True(t, ok)
	got, _ := p1.ScheduledTime()
	assert.Equal(t, moved, got)

	_, ok = c.Post("p2")
	assert.False(t, ok)
	_, ok = c.Post("p3")
	assert.True(t, ok)

	assert.True(t, c.ClearOptimisticUpdate("p1", id))
	assert.Equal(t, UpdateCommitted, c.UpdateState("p1"))
}

func TestPostCache_RefetchFailureKeepsMonth(t *testing.T) {
	at := time.Date(2026, 12, 7, 9, 0, 0, 0, time.UTC)
	repo := newFakePostRepo(scheduledPost("dec", at))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	repo.setFail("2026-12", errors.New("unavailable"))
	require.Error(t, c.Refetch(context.Background()))

	_, ok := c.Post("dec")
	assert.True(t, ok)
}

func TestPostCache_PostsAreCopies(t *testing.T) {
	repo := newFakePostRepo(scheduledPost("p1", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)))
	c := newTestCache(repo)
	require.NoError(t, c.Init(context.Background()))

	v := c.Version()
	posts := c.Posts()
	posts[0].ScheduledAt.Seconds = 0
	posts[0].Status = model.Drafted

	p, _ := c.Post("p1")
	assert.Equal(t, model.Scheduled, p.Status)
	assert.NotZero(t, p.ScheduledAt.Seconds)
	assert.Equal(t, v, c.Version())
}
