package state

import "time"

// UserState текущий шаг диалога оператора
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Ввод времени переноса: "HH:MM" или "YYYY-MM-DD HH:MM"
	StateRescheduleTime UserState = "reschedule_time"

	// Ввод сетки таймслотов строками "Monday: 09:00, 13:00"
	StateTimeslotsInput UserState = "timeslots_input"
)

// Dialog данные незавершённого диалога
type Dialog struct {
	State     UserState
	PostID    string
	Date      time.Time // предзаполненная дата переноса
	MessageID int       // сообщение с клавиатурой диалога
	StartedAt time.Time
}
