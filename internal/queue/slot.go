package queue

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

const (
	previewLength = 60
	noContent     = "No content"
	unknownClient = "Unknown Client"
)

// Slot элемент очереди: либо FilledSlot, либо EmptySlot
type Slot interface {
	ID() string
	Time() time.Time
	Clock() string
	IsEmpty() bool
	slot()
}

// FilledSlot запланированный пост с данными для отображения
type FilledSlot struct {
	Post          model.ScheduledPost
	At            time.Time
	ClientName    string
	ClientAvatar  string
	ProfileName   string
	ProfileAvatar string
	Preview       string
}

func (s FilledSlot) ID() string      { return s.Post.ID }
func (s FilledSlot) Time() time.Time { return s.At }
func (s FilledSlot) Clock() string   { return s.At.Format("15:04") }
func (s FilledSlot) IsEmpty() bool   { return false }
func (FilledSlot) slot()             {}

// EmptySlot незанятый таймслот
type EmptySlot struct {
	At       time.Time
	Label    string
	Profiles []model.AssignedProfile
}

func (s EmptySlot) ID() string      { return EmptySlotID(s.At) }
func (s EmptySlot) Time() time.Time { return s.At }
func (s EmptySlot) Clock() string   { return s.Label }
func (s EmptySlot) IsEmpty() bool   { return true }
func (EmptySlot) slot()             {}

// EmptySlotID идентификатор пустого слота вида empty-2006-01-02-15:04
func EmptySlotID(at time.Time) string {
	return fmt.Sprintf("empty-%s-%s", at.Format(dateLayout), at.Format("15:04"))
}

// Preview обрезает текст поста до 60 символов
func Preview(text string) string {
	if text == "" {
		return noContent
	}
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// ClientInfo данные клиента для отображения слотов
type ClientInfo struct {
	Name      string
	AvatarURL string
}

func newFilledSlot(post model.ScheduledPost, at time.Time, client ClientInfo, profile *model.AssignedProfile) FilledSlot {
	name := client.Name
	if name == "" {
		name = unknownClient
	}
	slot := FilledSlot{
		Post:         post,
		At:           at,
		ClientName:   name,
		ClientAvatar: client.AvatarURL,
		ProfileName:  post.ProfileName,
		Preview:      Preview(post.Text),
	}
	if profile != nil {
		if slot.ProfileName == "" {
			slot.ProfileName = profile.Name
		}
		slot.ProfileAvatar = profile.AvatarURL
	}
	return slot
}
