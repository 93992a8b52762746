package common

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var screenNow = time.Date(2026, 11, 30, 8, 0, 0, 0, time.UTC)

func filled(id string, at time.Time) queue.FilledSlot {
	return queue.FilledSlot{
		Post:    model.ScheduledPost{ID: id, Title: "Post " + id, Status: model.Scheduled},
		At:      at,
		Preview: "text " + id,
	}
}

func sampleView() queue.Projection {
	day := screenNow.Truncate(24 * time.Hour)
	return queue.Projection{
		Initialized: true,
		Days: []queue.DayGroup{
			{
				Key: "2026-11-30", Date: day, Day: model.Monday, Active: true,
				Slots: []queue.Slot{
					filled("p1", day.Add(9*time.Hour)),
					queue.EmptySlot{At: day.Add(13 * time.Hour), Label: "13:00"},
				},
			},
			{
				Key: "2026-12-01", Date: day.AddDate(0, 0, 1), Day: model.Tuesday, Active: true,
				Slots: []queue.Slot{filled("p2", day.AddDate(0, 0, 1).Add(9*time.Hour))},
			},
		},
	}
}

func callbacksOf(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

func TestQueueScreen(t *testing.T) {
	text, kb := QueueScreen(QueueScreenInput{
		ClientName:          "Acme & Co",
		View:                sampleView(),
		Policy:              queue.EmptySlotsVisible,
		Months:              queue.DefaultWindow(screenNow),
		TimeslotsConfigured: true,
		Now:                 screenNow,
	})

	assert.Contains(t, text, "Queue · Acme &amp; Co")
	assert.Contains(t, text, "Loaded: November 2026 – December 2026")
	assert.Contains(t, text, "· today")
	assert.Contains(t, text, "13:00 · empty slot")

	cbs := callbacksOf(kb)
	assert.Contains(t, cbs, "q_drag:p1")
	assert.Contains(t, cbs, "q_drag:p2")
	assert.Contains(t, cbs, CbHide)
	assert.Contains(t, cbs, CbMore)
	assert.NotContains(t, cbs, "q_drag:empty-2026-11-30-13:00")
	assert.Equal(t, "🙈 Hide empty", kb.InlineKeyboard[2][0].Text)
}

func TestQueueScreen_NotInitializedAndEmpty(t *testing.T) {
	text, _ := QueueScreen(QueueScreenInput{ClientName: "Acme", Now: screenNow})
	assert.Contains(t, text, "Queue is loading")

	text, kb := QueueScreen(QueueScreenInput{
		ClientName: "Acme",
		View:       queue.Projection{Initialized: true},
		Policy:     queue.EmptySlotsHidden,
		Now:        screenNow,
	})
	assert.Contains(t, text, "Nothing scheduled")
	assert.Equal(t, "👁 Show empty", kb.InlineKeyboard[0][0].Text)
}

func TestQueueScreen_Pagination(t *testing.T) {
	view := queue.Projection{Initialized: true}
	for i := 0; i < 10; i++ {
		date := screenNow.Truncate(24*time.Hour).AddDate(0, 0, i)
		view.Days = append(view.Days, queue.DayGroup{
			Key:    date.Format("2006-01-02"),
			Date:   date,
			Active: true,
			Slots:  []queue.Slot{filled("p"+date.Format("02"), date.Add(9*time.Hour))},
		})
	}
	assert.Equal(t, 2, QueuePages(view))
	assert.Equal(t, 1, PageOf(view, "p08"))
	assert.Equal(t, 0, PageOf(view, "p30"))

	_, kb := QueueScreen(QueueScreenInput{ClientName: "Acme", View: view, Page: 1, Now: screenNow, TimeslotsConfigured: true})
	cbs := callbacksOf(kb)
	assert.Contains(t, cbs, "q_drag:p07")
	assert.NotContains(t, cbs, "q_drag:p30")
	assert.Contains(t, cbs, "q_page:0")
}

func TestDragScreen(t *testing.T) {
	view := sampleView()
	source := view.Days[0].Slots[0].(queue.FilledSlot)

	text, kb := DragScreen(source, view)
	assert.Contains(t, text, "Moving")

	cbs := callbacksOf(kb)
	assert.NotContains(t, cbs, "q_drop:p1")
	assert.Contains(t, cbs, "q_drop:empty-2026-11-30-13:00")
	assert.Contains(t, cbs, "q_drop:p2")
	assert.Contains(t, cbs, "q_resched:p1")
	assert.Contains(t, cbs, "q_top:p1")
	assert.Contains(t, cbs, "q_remove:p1")
	assert.Contains(t, cbs, CbDragEnd)
}

func TestRescheduleScreen(t *testing.T) {
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	text, kb := RescheduleScreen(model.ScheduledPost{Title: "Launch"}, date, queue.MsgPastDate)

	assert.Contains(t, text, "“Launch”")
	assert.Contains(t, text, "Tue 01 Dec")
	assert.Contains(t, text, "⚠️ Cannot schedule for past dates.")
	assert.Equal(t, []string{"q_time:09:00", "q_time:14:00", "q_time:18:00", CbDragEnd}, callbacksOf(kb))
}

func TestDayScreen(t *testing.T) {
	day := screenNow.Truncate(24 * time.Hour)
	failed := filled("p3", day.Add(7*time.Hour))
	failed.Post.Status = model.Error
	failed.Post.Message = "token expired"
	g := queue.DayGroup{Key: "2026-11-30", Date: day, Slots: []queue.Slot{failed}}

	text, _ := DayScreen(g, true, day, screenNow)
	assert.Contains(t, text, "⚠️ <b>07:00</b> · Error")
	assert.Contains(t, text, "token expired")

	text, _ = DayScreen(queue.DayGroup{}, false, day, screenNow)
	assert.Contains(t, text, "No posts on this day.")
}

func TestWeekStartAndCalendarKeyboard(t *testing.T) {
	sunday := time.Date(2026, 12, 6, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), WeekStart(sunday, 0))
	assert.Equal(t, time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC), WeekStart(sunday, 1))
	assert.Equal(t, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), WeekStart(screenNow, 0))

	cbs := callbacksOf(CalendarKeyboard(WeekStart(screenNow, 0), 0))
	assert.Equal(t, "q_day:2026-11-30", cbs[0])
	assert.Equal(t, "q_day:2026-12-06", cbs[6])
	assert.Contains(t, cbs, "q_cal:1")
	assert.Contains(t, cbs, "q_cal:-1")
}

func TestClientsScreen(t *testing.T) {
	text, kb := ClientsScreen(nil, "")
	assert.Contains(t, text, "no clients")
	assert.Nil(t, kb)

	text, kb = ClientsScreen([]*model.Client{{ID: "c1", Name: "Acme"}, {ID: "c2"}}, "c1")
	assert.Contains(t, text, "2 clients")
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "✅ Acme", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "c2", kb.InlineKeyboard[0][1].Text)
	assert.Equal(t, "client:c2", kb.InlineKeyboard[0][1].CallbackData)
}

func TestTimeslotsScreen(t *testing.T) {
	cfg := model.TimeslotConfig{
		model.Monday: {"09:00": {{ID: "pr1", Name: "Jane"}}, "13:00": {}},
	}
	text, _ := TimeslotsScreen(queue.TimeslotSnapshot{
		Config:      cfg,
		ActiveDays:  cfg.ActiveDays(),
		Initialized: true,
	})
	assert.Contains(t, text, "Monday: 09:00, 13:00")
	assert.Contains(t, text, "👤 Monday 09:00: Jane")

	text, _ = TimeslotsScreen(queue.TimeslotSnapshot{Initialized: true})
	assert.Contains(t, text, "No timeslots yet")
}

func TestHistoryScreen(t *testing.T) {
	assert.Equal(t, "📜 No schedule changes yet.", HistoryScreen(nil, time.UTC))

	to := screenNow.Add(time.Hour)
	text := HistoryScreen([]*model.ScheduleEvent{{PostID: "p1", ToTime: &to, Reason: model.EventReasonReorder, CreatedAt: screenNow}}, time.UTC)
	assert.True(t, strings.HasPrefix(text, "📜 <b>Recent schedule changes</b>"))
	assert.Contains(t, text, "reordered")
}
