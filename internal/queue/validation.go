package queue

import (
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

const (
	// MinLeadTime минимальный запас до публикации, если перенос на сегодня
	MinLeadTime = 6 * time.Minute

	// RescheduleMinuteFudge добавляется к минутам кандидата при проверке.
	// Похоже на off-by-one в дашборде; сохранено до решения продукта.
	// В сохраняемое время поста не попадает.
	RescheduleMinuteFudge = time.Minute
)

// SuggestedTimes варианты времени в диалоге переноса
var SuggestedTimes = []string{"09:00", "14:00", "18:00"}

// Сообщения валидации
const (
	MsgSelectDate  = "Please select a date."
	MsgSelectTime  = "Please select a time."
	MsgInvalidTime = "Please enter a time as HH:MM."
	MsgPastDate    = "Cannot schedule for past dates."
)

// Validation результат проверки переноса
type Validation struct {
	Valid   bool
	Message string
}

// ValidateReschedule проверяет, можно ли перенести пост на date+clock прямо сейчас.
// Нулевая date означает, что дата не выбрана.
func ValidateReschedule(date time.Time, clock string, now time.Time) Validation {
	if date.IsZero() {
		return Validation{Message: MsgSelectDate}
	}
	if clock == "" {
		return Validation{Message: MsgSelectTime}
	}
	hour, minute, err := model.ParseClock(clock)
	if err != nil {
		return Validation{Message: MsgInvalidTime}
	}

	date = date.In(now.Location())
	if startOfDay(date).Before(startOfDay(now)) {
		return Validation{Message: MsgPastDate}
	}

	candidate := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location()).
		Add(RescheduleMinuteFudge)
	if sameDay(candidate, now) {
		earliest := now.Add(MinLeadTime)
		if candidate.Before(earliest) {
			return Validation{Message: "Please select a time after " + earliest.Format("15:04") + "."}
		}
	}

	return Validation{Valid: true}
}

// CombineDateClock собирает момент публикации из даты и "HH:MM" без поправок
func CombineDateClock(date time.Time, clock string) (time.Time, error) {
	hour, minute, err := model.ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location()), nil
}
