package formatting

import "github.com/Freeeeeet/postqueue_bot/internal/model"

// StatusDisplay представляет отображение статуса поста
type StatusDisplay struct {
	Emoji string
	Text  string
}

var statusDisplays = map[model.StatusKind]string{
	model.StatusIdea:               "💡",
	model.StatusDrafted:            "📝",
	model.StatusNeedsVisual:        "🖼",
	model.StatusWaitingForApproval: "⏳",
	model.StatusApproved:           "👍",
	model.StatusScheduled:          "🗓",
	model.StatusPosted:             "✅",
	model.StatusError:              "⚠️",
}

// GetStatusDisplay возвращает emoji и текст для статуса поста
func GetStatusDisplay(status model.PostStatus) StatusDisplay {
	if emoji, ok := statusDisplays[status.Kind]; ok {
		return StatusDisplay{Emoji: emoji, Text: status.String()}
	}
	return StatusDisplay{Emoji: "📌", Text: status.String()}
}

// EventReasonText подпись причины переноса для истории
func EventReasonText(reason string) string {
	switch reason {
	case model.EventReasonReschedule:
		return "rescheduled"
	case model.EventReasonReorder:
		return "reordered"
	case model.EventReasonMoveToTop:
		return "moved to top"
	case model.EventReasonRemove:
		return "removed from queue"
	default:
		return reason
	}
}
