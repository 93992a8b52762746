package common

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/postqueue_bot/internal/service"
	"github.com/go-telegram/bot/models"
)

// QueueInput собирает данные экрана очереди из сессии
func QueueInput(s *service.QueueSession, page int) QueueScreenInput {
	client := s.Client()
	return QueueScreenInput{
		ClientName:          client.Name,
		View:                s.View(),
		Policy:              s.Policy(),
		Months:              s.Months(),
		TimeslotsConfigured: s.HasTimeslotsConfigured(),
		Page:                page,
		Now:                 s.Now(),
	}
}

// WeekView картинка недели со смещением offset, подпись и клавиатура.
// Месяцы недели догружаются; если какой-то не загрузился, рисуем что есть.
func WeekView(ctx context.Context, s *service.QueueSession, offset int) ([]byte, string, *models.InlineKeyboardMarkup, error) {
	now := s.Now()
	weekStart := WeekStart(now, offset)
	weekEnd := weekStart.AddDate(0, 0, 6)
	loadErr := s.EnsureRange(ctx, weekStart, weekEnd)

	png, err := GenerateWeekImage(weekStart, s.CalendarView().Days, now)
	if err != nil {
		return nil, "", nil, fmt.Errorf("generate week image: %w", err)
	}

	caption := CalendarCaption(s.Client().Name, weekStart)
	if loadErr != nil {
		caption += "\n\n⚠️ Part of this week could not be loaded."
	}
	return png, caption, CalendarKeyboard(weekStart, offset), nil
}
