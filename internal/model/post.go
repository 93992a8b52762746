package model

import (
	"strings"
	"time"
)

// StatusKind closed set of post statuses, Custom carries a user label
type StatusKind int

const (
	StatusIdea StatusKind = iota
	StatusDrafted
	StatusNeedsVisual
	StatusWaitingForApproval
	StatusApproved
	StatusScheduled
	StatusPosted
	StatusError
	StatusCustom
)

var statusLabels = map[StatusKind]string{
	StatusIdea:               "Idea",
	StatusDrafted:            "Drafted",
	StatusNeedsVisual:        "Needs Visual",
	StatusWaitingForApproval: "Waiting for Approval",
	StatusApproved:           "Approved",
	StatusScheduled:          "Scheduled",
	StatusPosted:             "Posted",
	StatusError:              "Error",
}

// PostStatus статус поста. Для StatusCustom Label хранит название,
// заведённое пользователем.
type PostStatus struct {
	Kind  StatusKind
	Label string
}

var (
	Idea               = PostStatus{Kind: StatusIdea}
	Drafted            = PostStatus{Kind: StatusDrafted}
	NeedsVisual        = PostStatus{Kind: StatusNeedsVisual}
	WaitingForApproval = PostStatus{Kind: StatusWaitingForApproval}
	Approved           = PostStatus{Kind: StatusApproved}
	Scheduled          = PostStatus{Kind: StatusScheduled}
	Posted             = PostStatus{Kind: StatusPosted}
	Error              = PostStatus{Kind: StatusError}
)

// CustomStatus создаёт пользовательский статус
func CustomStatus(label string) PostStatus {
	return PostStatus{Kind: StatusCustom, Label: label}
}

// ParsePostStatus разбирает текстовый статус. Неизвестные значения
// становятся пользовательскими статусами.
func ParsePostStatus(s string) PostStatus {
	s = strings.TrimSpace(s)
	norm := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	for kind, label := range statusLabels {
		if strings.ToLower(strings.ReplaceAll(label, " ", "")) == norm {
			return PostStatus{Kind: kind}
		}
	}
	// старые записи дашборда
	if norm == "draft" {
		return Drafted
	}
	return CustomStatus(s)
}

// String возвращает название статуса для отображения и хранения
func (s PostStatus) String() string {
	if s.Kind == StatusCustom {
		return s.Label
	}
	return statusLabels[s.Kind]
}

// Is сравнивает статусы
func (s PostStatus) Is(other PostStatus) bool {
	if s.Kind != other.Kind {
		return false
	}
	return s.Kind != StatusCustom || s.Label == other.Label
}

func (s PostStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PostStatus) UnmarshalText(text []byte) error {
	*s = ParsePostStatus(string(text))
	return nil
}

// Timestamp момент времени как пара секунды+наносекунды от эпохи
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanoseconds"`
}

// TimestampOf конвертирует time.Time в Timestamp
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// TimestampPtr как TimestampOf, но возвращает указатель
func TimestampPtr(t time.Time) *Timestamp {
	ts := TimestampOf(t)
	return &ts
}

// Time возвращает момент в UTC
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

// ScheduledPost пост клиента с (возможно) назначенным временем публикации
type ScheduledPost struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	ProfileID   string     `json:"profile_id"`
	ProfileName string     `json:"profile"`
	Status      PostStatus `json:"status"`
	ScheduledAt *Timestamp `json:"scheduled_post_at"`
	PostedAt    *Timestamp `json:"posted_at,omitempty"`
	Message     string     `json:"message,omitempty"` // текст ошибки для статуса Error
}

// ScheduledTime возвращает время публикации и false, если оно не задано
func (p ScheduledPost) ScheduledTime() (time.Time, bool) {
	if p.ScheduledAt == nil {
		return time.Time{}, false
	}
	return p.ScheduledAt.Time(), true
}

// Clone копия поста без общих указателей
func (p ScheduledPost) Clone() ScheduledPost {
	if p.ScheduledAt != nil {
		ts := *p.ScheduledAt
		p.ScheduledAt = &ts
	}
	if p.PostedAt != nil {
		ts := *p.PostedAt
		p.PostedAt = &ts
	}
	return p
}

// DefaultStatus статус для записей без явного статуса
func DefaultStatus(label string, scheduledAt, postedAt *Timestamp) PostStatus {
	if strings.TrimSpace(label) != "" {
		return ParsePostStatus(label)
	}
	if scheduledAt == nil && postedAt != nil {
		return Posted
	}
	return Scheduled
}

// PostPatch изменение поста. Единственный способ менять пост.
type PostPatch struct {
	ScheduledAt   *Timestamp
	Status        *PostStatus
	ClearSchedule bool
}

// Apply возвращает новую копию поста с применённым патчем
func (p PostPatch) Apply(post ScheduledPost) ScheduledPost {
	out := post.Clone()
	if p.ClearSchedule {
		out.ScheduledAt = nil
	}
	if p.ScheduledAt != nil {
		ts := *p.ScheduledAt
		out.ScheduledAt = &ts
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	return out
}
