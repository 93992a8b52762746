package queue

import (
	"testing"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput(posts ...model.ScheduledPost) Input {
	return Input{
		ClientID:   "client-1",
		Client:     ClientInfo{Name: "Acme"},
		Posts:      posts,
		PostsReady: true,
		Timeslots:  readySnapshot(mondayConfig()),
		Months:     NewMonthWindow(MonthOf(monday)),
		Policy:     EmptySlotsVisible,
		Now:        monday,
	}
}

func TestProject_EmptyMondayHasTwoEmptySlots(t *testing.T) {
	p := Project(baseInput())

	require.True(t, p.Initialized)
	require.Len(t, p.Days, 1)

	day := p.Days[0]
	assert.Equal(t, "2026-11-30", day.Key)
	assert.Equal(t, model.Monday, day.Day)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, "empty-2026-11-30-09:00", day.Slots[0].ID())
	assert.Equal(t, "empty-2026-11-30-13:00", day.Slots[1].ID())
	assert.True(t, day.Slots[0].IsEmpty())
	assert.Empty(t, p.QueueSlots())
}

func TestProject_FilledSlotReplacesEmpty(t *testing.T) {
	post := scheduledPost("p1", time.Date(2026, 11, 30, 13, 0, 0, 0, time.UTC))

	p := Project(baseInput(post))

	require.Len(t, p.Days, 1)
	slots := p.Days[0].Slots
	require.Len(t, slots, 2)
	assert.True(t, slots[0].IsEmpty())
	assert.Equal(t, "09:00", slots[0].Clock())

	filled, ok := slots[1].(FilledSlot)
	require.True(t, ok)
	assert.Equal(t, "p1", filled.ID())
	assert.Equal(t, "Acme", filled.ClientName)
	assert.Equal(t, "post p1", filled.Preview)
}

func TestProject_HiddenPolicyHasOnlyPosts(t *testing.T) {
	in := baseInput(scheduledPost("p1", time.Date(2026, 11, 30, 13, 0, 0, 0, time.UTC)))
	in.Policy = EmptySlotsHidden

	p := Project(in)

	require.Len(t, p.Days, 1)
	require.Len(t, p.Days[0].Slots, 1)
	assert.False(t, p.Days[0].Slots[0].IsEmpty())
}

func TestProject_NotInitialized(t *testing.T) {
	in := baseInput()
	in.PostsReady = false
	assert.False(t, Project(in).Initialized)
	assert.Empty(t, Project(in).Days)

	in = baseInput()
	in.Timeslots.Initialized = false
	assert.False(t, Project(in).Initialized)
}

func TestProject_PostOnInactiveDayStillShown(t *testing.T) {
	// вторник не активен
	post := scheduledPost("p1", time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC))
	in := baseInput(post)
	in.Months = NewMonthWindow(MonthOf(monday), MonthOf(monday).Add(1))

	p := Project(in)

	g, ok := p.Group("2026-12-01")
	require.True(t, ok)
	assert.False(t, g.Active)
	require.Len(t, g.Slots, 1)
	assert.Equal(t, "p1", g.Slots[0].ID())
}

func TestProject_EveryPostInExactlyOneGroup(t *testing.T) {
	posts := []model.ScheduledPost{
		scheduledPost("a", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC)),
		scheduledPost("b", time.Date(2026, 12, 7, 13, 0, 0, 0, time.UTC)),
		scheduledPost("c", time.Date(2026, 12, 9, 18, 30, 0, 0, time.UTC)),
		scheduledPost("d", time.Date(2026, 12, 9, 8, 15, 0, 0, time.UTC)),
	}
	in := baseInput(posts...)
	in.Months = DefaultWindow(monday)

	p := Project(in)

	seen := make(map[string]string)
	for _, g := range p.Days {
		for _, s := range g.Slots {
			if s.IsEmpty() {
				continue
			}
			_, dup := seen[s.ID()]
			require.False(t, dup, "post %s appears twice", s.ID())
			seen[s.ID()] = g.Key
		}
	}
	assert.Equal(t, map[string]string{
		"a": "2026-11-30",
		"b": "2026-12-07",
		"c": "2026-12-09",
		"d": "2026-12-09",
	}, seen)

	g, _ := p.Group("2026-12-09")
	assert.Equal(t, "d", g.Slots[0].ID())
	assert.Equal(t, "c", g.Slots[1].ID())
}

func TestProject_EveryActiveDayHasAllUnoccupiedTimes(t *testing.T) {
	in := baseInput(scheduledPost("a", time.Date(2026, 12, 14, 9, 0, 0, 0, time.UTC)))
	in.Months = DefaultWindow(monday)

	p := Project(in)

	mondays := 0
	for _, g := range p.Days {
		require.Equal(t, model.Monday, g.Day)
		mondays++
		empty := 0
		for _, s := range g.Slots {
			if s.IsEmpty() {
				empty++
			}
		}
		if g.Key == "2026-12-14" {
			assert.Equal(t, 1, empty)
		} else {
			assert.Equal(t, 2, empty)
		}
	}
	// 30 ноября + 4 понедельника декабря
	assert.Equal(t, 5, mondays)
}

func TestProject_FiltersClientStatusAndMissingInstant(t *testing.T) {
	other := scheduledPost("other", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC))
	other.ClientID = "client-2"
	draft := scheduledPost("draft", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC))
	draft.Status = model.Drafted
	noTime := scheduledPost("none", monday)
	noTime.ScheduledAt = nil
	failed := scheduledPost("failed", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC))
	failed.Status = model.Error

	in := baseInput(other, draft, noTime, failed)
	assert.Empty(t, Project(in).QueueSlots())

	in.Statuses = DayDetailStatuses
	slots := Project(in).QueueSlots()
	require.Len(t, slots, 1)
	assert.Equal(t, "failed", slots[0].ID())
}

func TestProject_SkipsPastDaysWithoutPosts(t *testing.T) {
	in := baseInput()
	in.Now = time.Date(2026, 11, 3, 8, 0, 0, 0, time.UTC)

	p := Project(in)

	require.NotEmpty(t, p.Days)
	assert.Equal(t, "2026-11-09", p.Days[0].Key)
	assert.Equal(t, 4, len(p.Days))
}

func TestProject_AssignedProfileResolved(t *testing.T) {
	cfg := model.TimeslotConfig{
		model.Monday: {"09:00": {{ID: "pr1", Name: "Jane", AvatarURL: "https://img/jane"}}},
	}
	post := scheduledPost("p1", time.Date(2026, 11, 30, 9, 0, 0, 0, time.UTC))
	post.ProfileID = "pr1"
	in := baseInput(post)
	in.Timeslots = readySnapshot(cfg)
	in.Client = ClientInfo{}

	slots := Project(in).QueueSlots()

	require.Len(t, slots, 1)
	assert.Equal(t, "Jane", slots[0].ProfileName)
	assert.Equal(t, "https://img/jane", slots[0].ProfileAvatar)
	assert.Equal(t, "Unknown Client", slots[0].ClientName)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "No content", Preview(""))
	assert.Equal(t, "short", Preview("short"))

	long := ""
	for i := 0; i < 70; i++ {
		long += "ж"
	}
	got := Preview(long)
	assert.Equal(t, 63, len([]rune(got)))
	assert.Equal(t, "...", got[len(got)-3:])
}
