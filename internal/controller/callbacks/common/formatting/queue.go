package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
)

// Truncate обрезает строку до n символов
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Pluralize "1 post", "3 posts"
func Pluralize(count int, one, many string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, one)
	}
	return fmt.Sprintf("%d %s", count, many)
}

// PostTitle заголовок поста для кнопок и подписей
func PostTitle(post model.ScheduledPost) string {
	if post.Title != "" {
		return post.Title
	}
	return queue.Preview(post.Text)
}

// FormatSlotLine строка слота в тексте очереди (HTML)
func FormatSlotLine(slot queue.Slot) string {
	switch s := slot.(type) {
	case queue.FilledSlot:
		display := GetStatusDisplay(s.Post.Status)
		line := fmt.Sprintf("%s <b>%s</b>", display.Emoji, s.Clock())
		if s.ProfileName != "" {
			line += " · " + html.EscapeString(s.ProfileName)
		}
		return line + "\n      " + html.EscapeString(s.Preview)
	case queue.EmptySlot:
		line := fmt.Sprintf("▫️ <i>%s · empty slot</i>", s.Clock())
		if names := profileNames(s.Profiles); names != "" {
			line += " <i>(" + html.EscapeString(names) + ")</i>"
		}
		return line
	default:
		return ""
	}
}

// SlotButtonText подпись кнопки слота
func SlotButtonText(slot queue.Slot) string {
	at := slot.Time().Format("Mon 02 15:04")
	switch s := slot.(type) {
	case queue.FilledSlot:
		return fmt.Sprintf("%s · %s", at, Truncate(PostTitle(s.Post), 24))
	default:
		return at + " · empty"
	}
}

// FormatEvent строка истории переносов
func FormatEvent(e *model.ScheduleEvent, loc *time.Location) string {
	when := e.CreatedAt.In(loc).Format("02 Jan 15:04")
	from := "unscheduled"
	if e.FromTime != nil {
		from = FormatDateTime(e.FromTime.In(loc))
	}
	to := "drafts"
	if e.ToTime != nil {
		to = FormatDateTime(e.ToTime.In(loc))
	}
	return fmt.Sprintf("<code>%s</code> %s\n      %s → %s · <i>%s</i>",
		when, EventReasonText(e.Reason), from, to, html.EscapeString(e.PostID))
}

func profileNames(profiles []model.AssignedProfile) string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}
