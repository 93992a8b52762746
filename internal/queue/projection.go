package queue

import (
	"sort"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

const dateLayout = "2006-01-02"

// EmptySlotPolicy показывать ли пустые таймслоты в очереди
type EmptySlotPolicy int

const (
	EmptySlotsVisible EmptySlotPolicy = iota
	EmptySlotsHidden
)

func (p EmptySlotPolicy) String() string {
	if p == EmptySlotsHidden {
		return "hidden"
	}
	return "visible"
}

// QueueStatuses статусы постов, попадающих в очередь
var QueueStatuses = []model.PostStatus{model.Scheduled}

// DayDetailStatuses статусы постов для детального просмотра дня
var DayDetailStatuses = []model.PostStatus{model.Scheduled, model.Error, model.Posted}

// Input всё, из чего строится очередь
type Input struct {
	ClientID   string
	Client     ClientInfo
	Posts      []model.ScheduledPost
	PostsReady bool
	Timeslots  TimeslotSnapshot
	Months     MonthWindow
	Policy     EmptySlotPolicy
	Statuses   []model.PostStatus // nil - QueueStatuses
	Now        time.Time
}

// DayGroup слоты одного календарного дня
type DayGroup struct {
	Key    string // YYYY-MM-DD
	Date   time.Time
	Day    model.DayName
	Active bool
	Slots  []Slot
}

// Projection очередь, сгруппированная по дням.
// Initialized=false означает, что источники ещё не загружены, а не пустую очередь.
type Projection struct {
	Initialized bool
	Days        []DayGroup
}

// Group возвращает группу по ключу YYYY-MM-DD
func (p Projection) Group(key string) (DayGroup, bool) {
	for _, g := range p.Days {
		if g.Key == key {
			return g, true
		}
	}
	return DayGroup{}, false
}

// DayGroups дата -> упорядоченные слоты
func (p Projection) DayGroups() map[string][]Slot {
	out := make(map[string][]Slot, len(p.Days))
	for _, g := range p.Days {
		out[g.Key] = g.Slots
	}
	return out
}

// QueueSlots все заполненные слоты по возрастанию времени
func (p Projection) QueueSlots() []FilledSlot {
	var out []FilledSlot
	for _, g := range p.Days {
		for _, s := range g.Slots {
			if f, ok := s.(FilledSlot); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// FindSlot ищет слот по идентификатору
func (p Projection) FindSlot(id string) (Slot, bool) {
	for _, g := range p.Days {
		for _, s := range g.Slots {
			if s.ID() == id {
				return s, true
			}
		}
	}
	return nil, false
}

// SlotCount общее число слотов
func (p Projection) SlotCount() int {
	n := 0
	for _, g := range p.Days {
		n += len(g.Slots)
	}
	return n
}

// Project строит очередь клиента. Чистая функция от входа.
func Project(in Input) Projection {
	if !in.PostsReady || !in.Timeslots.Initialized {
		return Projection{}
	}

	loc := in.Now.Location()
	today := startOfDay(in.Now)
	statuses := in.Statuses
	if statuses == nil {
		statuses = QueueStatuses
	}
	cfg := in.Timeslots.Config

	type dayPosts struct {
		date  time.Time
		slots []Slot
	}
	days := make(map[string]*dayPosts)
	ensure := func(date time.Time) *dayPosts {
		key := date.Format(dateLayout)
		d, ok := days[key]
		if !ok {
			d = &dayPosts{date: date}
			days[key] = d
		}
		return d
	}

	for _, post := range in.Posts {
		if post.ClientID != in.ClientID || !hasStatus(post.Status, statuses) {
			continue
		}
		at, ok := post.ScheduledTime()
		if !ok {
			continue
		}
		at = at.In(loc)
		d := ensure(startOfDay(at))
		d.slots = append(d.slots, newFilledSlot(post, at, in.Client, resolveProfile(cfg, post, at)))
	}

	for _, month := range in.Months.Keys() {
		start, end := month.Range(loc)
		for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
			if date.Before(today) || !cfg.IsActive(model.DayNameOf(date.Weekday())) {
				continue
			}
			ensure(date)
		}
	}

	projection := Projection{Initialized: true, Days: make([]DayGroup, 0, len(days))}
	for key, d := range days {
		day := model.DayNameOf(d.date.Weekday())
		group := DayGroup{
			Key:    key,
			Date:   d.date,
			Day:    day,
			Active: cfg.IsActive(day),
			Slots:  d.slots,
		}

		if in.Policy == EmptySlotsVisible && group.Active {
			occupied := make(map[string]bool, len(d.slots))
			for _, s := range d.slots {
				occupied[s.Clock()] = true
			}
			for _, clock := range cfg.TimesFor(day) {
				if occupied[clock] {
					continue
				}
				hour, minute, err := model.ParseClock(clock)
				if err != nil {
					continue
				}
				at := time.Date(d.date.Year(), d.date.Month(), d.date.Day(), hour, minute, 0, 0, loc)
				group.Slots = append(group.Slots, EmptySlot{At: at, Label: clock, Profiles: cfg.Profiles(day, clock)})
			}
		}

		sort.SliceStable(group.Slots, func(i, j int) bool {
			a, b := group.Slots[i], group.Slots[j]
			if !a.Time().Equal(b.Time()) {
				return a.Time().Before(b.Time())
			}
			return a.ID() < b.ID()
		})
		projection.Days = append(projection.Days, group)
	}

	sort.Slice(projection.Days, func(i, j int) bool {
		return projection.Days[i].Date.Before(projection.Days[j].Date)
	})

	return projection
}

func hasStatus(status model.PostStatus, allowed []model.PostStatus) bool {
	for _, s := range allowed {
		if status.Is(s) {
			return true
		}
	}
	return false
}

func resolveProfile(cfg model.TimeslotConfig, post model.ScheduledPost, at time.Time) *model.AssignedProfile {
	if post.ProfileID == "" {
		return nil
	}
	for _, p := range cfg.Profiles(model.DayNameOf(at.Weekday()), at.Format("15:04")) {
		if p.ID == post.ProfileID {
			p := p
			return &p
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
