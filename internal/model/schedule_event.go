package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleEvent запись истории переносов поста
type ScheduleEvent struct {
	ID         uuid.UUID  `json:"id"`
	PostID     string     `json:"post_id"`
	ClientID   string     `json:"client_id"`
	FromTime   *time.Time `json:"from_time"` // nil - пост не был запланирован
	ToTime     *time.Time `json:"to_time"`   // nil - пост снят из очереди
	Reason     string     `json:"reason"`
	TelegramID int64      `json:"telegram_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Причины переноса
const (
	EventReasonReschedule = "reschedule"
	EventReasonReorder    = "reorder"
	EventReasonMoveToTop  = "move_to_top"
	EventReasonRemove     = "remove"
)
