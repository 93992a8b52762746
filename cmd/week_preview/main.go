package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
)

// Рисует картинку недели на тестовых данных, без базы и Telegram
func main() {
	out := flag.String("out", "week.png", "output file")
	hidden := flag.Bool("hide-empty", false, "hide empty timeslots")
	flag.Parse()

	now := time.Now()
	weekStart := common.WeekStart(now, 0)
	weekEnd := weekStart.AddDate(0, 0, 6)

	cfg := model.TimeslotConfig{
		model.Monday:    {"09:00": {}, "13:00": {{ID: "pr1", Name: "Jane Doe"}}},
		model.Tuesday:   {"09:00": {}, "17:30": {}},
		model.Wednesday: {"10:00": {}},
		model.Friday:    {"09:00": {}, "12:00": {}, "18:00": {}},
	}

	day := func(offset, hour, minute int) *model.Timestamp {
		return model.TimestampPtr(weekStart.AddDate(0, 0, offset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute))
	}
	posts := []model.ScheduledPost{
		{ID: "p1", ClientID: "preview", Title: "Quarterly results", Status: model.Posted, ScheduledAt: day(0, 9, 0), PostedAt: day(0, 9, 1)},
		{ID: "p2", ClientID: "preview", Title: "Hiring: backend engineers", Status: model.Scheduled, ScheduledAt: day(1, 9, 0)},
		{ID: "p3", ClientID: "preview", Title: "Conference recap", Status: model.Error, ScheduledAt: day(2, 11, 15), Message: "token expired"},
		{ID: "p4", ClientID: "preview", Title: "Customer story", Status: model.Scheduled, ScheduledAt: day(4, 12, 0)},
		{ID: "p5", ClientID: "preview", Title: "Weekend reading", Status: model.Scheduled, ScheduledAt: day(5, 16, 45)},
	}

	policy := queue.EmptySlotsVisible
	if *hidden {
		policy = queue.EmptySlotsHidden
	}

	// Прошедшие дни недели проекция отбрасывает, поэтому "сейчас" ставим на её начало
	projection := queue.Project(queue.Input{
		ClientID:   "preview",
		Client:     queue.ClientInfo{Name: "Preview client"},
		Posts:      posts,
		PostsReady: true,
		Timeslots: queue.TimeslotSnapshot{
			Config:      cfg,
			ActiveDays:  cfg.ActiveDays(),
			Initialized: true,
		},
		Months:   queue.NewMonthWindow(queue.MonthOf(weekStart), queue.MonthOf(weekEnd)),
		Policy:   policy,
		Statuses: queue.DayDetailStatuses,
		Now:      weekStart,
	})

	imageData, err := common.GenerateWeekImage(weekStart, projection.Days, now)
	if err != nil {
		fmt.Printf("Failed to generate image: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Failed to save file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved %s\n", *out)
	fmt.Printf("📅 Week: %s - %s\n", weekStart.Format("02.01.2006"), weekEnd.Format("02.01.2006"))
	fmt.Printf("📊 Slots: %d\n", projection.SlotCount())
}
