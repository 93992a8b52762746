package common

import (
	"errors"

	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"github.com/Freeeeeet/postqueue_bot/internal/repository"
	"github.com/Freeeeeet/postqueue_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoDialog      = errors.New("no active dialog")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, service.ErrUserNotFound):
		return "❌ You are not registered yet. Send /start"
	case errors.Is(err, service.ErrNoAgency):
		return "❌ Your account is not attached to an agency"
	case errors.Is(err, service.ErrNoClientSelected):
		return "👥 Pick a client first: /clients"
	case errors.Is(err, service.ErrClientNotFound):
		return "❌ Client not found"
	case errors.Is(err, service.ErrPostNotInQueue),
		errors.Is(err, queue.ErrPostNotCached),
		errors.Is(err, repository.ErrPostNotFound):
		return "❌ This post is no longer in the queue. Refresh and try again"
	case errors.Is(err, service.ErrNothingAhead):
		return "ℹ️ This post is already the only one in the queue"
	case errors.Is(err, service.ErrMoveTooLate):
		return "⏰ Not enough time before the first post to move this one ahead"
	case errors.Is(err, service.ErrInvalidTimeslots):
		return "❌ Could not read the timeslots. Use lines like \"Monday: 09:00, 13:00\""
	case errors.Is(err, queue.ErrNoActiveTimeslots):
		return "❌ Add at least one day with at least one time"
	case errors.Is(err, service.ErrTimeslotsNotReady):
		return "⏳ Timeslots are still loading, try again in a moment"
	case errors.Is(err, queue.ErrDragInProgress):
		return "✋ Finish moving the current post first"
	case errors.Is(err, queue.ErrNotDraggable):
		return "❌ Only scheduled posts can be moved"
	case errors.Is(err, queue.ErrNoActiveDrag):
		return "❌ Pick a post to move first"
	case errors.Is(err, ErrNoDialog):
		return "❌ This dialog has expired. Open /queue again"
	case errors.Is(err, ErrNoMessage):
		return "❌ Could not process the message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data format"
	default:
		return "❌ Something went wrong"
	}
}
