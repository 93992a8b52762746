package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"go.uber.org/zap"
)

// 2026-11-30 понедельник
var monday = time.Date(2026, time.November, 30, 8, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.November, day, hour, minute, 0, 0, time.UTC)
}

type memPosts struct {
	mu      sync.Mutex
	posts   map[string]model.ScheduledPost
	failIDs map[string]error
	writes  []string
}

func newMemPosts(posts ...model.ScheduledPost) *memPosts {
	m := &memPosts{posts: make(map[string]model.ScheduledPost), failIDs: make(map[string]error)}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *memPosts) ListScheduledPosts(_ context.Context, clientID string, from, to time.Time) ([]model.ScheduledPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ScheduledPost
	for _, p := range m.posts {
		t, ok := p.ScheduledTime()
		if ok && p.ClientID == clientID && !t.Before(from) && t.Before(to) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (m *memPosts) UpdatePost(_ context.Context, _ string, postID string, patch model.PostPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failIDs[postID]; err != nil {
		return err
	}
	m.posts[postID] = patch.Apply(m.posts[postID])
	m.writes = append(m.writes, postID)
	return nil
}

func (m *memPosts) get(id string) model.ScheduledPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.posts[id]
}

type memTimeslots struct {
	mu  sync.Mutex
	cfg model.TimeslotConfig
	err error
}

func (m *memTimeslots) GetTimeslots(context.Context, string) (model.TimeslotConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg.Clone(), nil
}

func (m *memTimeslots) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *memTimeslots) SaveTimeslots(_ context.Context, _ string, cfg model.TimeslotConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg.Clone()
	return nil
}

type memClients struct {
	clients []*model.Client
}

func (m *memClients) ListByAgency(_ context.Context, agencyID string) ([]*model.Client, error) {
	var out []*model.Client
	for _, c := range m.clients {
		if c.AgencyID == agencyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClients) GetByID(_ context.Context, agencyID, clientID string) (*model.Client, error) {
	for _, c := range m.clients {
		if c.AgencyID == agencyID && c.ID == clientID {
			return c, nil
		}
	}
	return nil, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []*model.ScheduleEvent
}

func (m *memEvents) Create(_ context.Context, e *model.ScheduleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memEvents) ListRecent(_ context.Context, clientID string, limit int) ([]*model.ScheduleEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*model.ScheduleEvent
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].ClientID == clientID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

type memUsers struct {
	users  map[int64]*model.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[int64]*model.User)}
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = monday
	cp := *u
	m.users[u.TelegramID] = &cp
	return nil
}

func (m *memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	u, ok := m.users[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	cp := *u
	m.users[u.TelegramID] = &cp
	return nil
}

func (m *memUsers) SetCurrentClient(_ context.Context, userID int64, clientID *string) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.CurrentClientID = clientID
			return nil
		}
	}
	return ErrUserNotFound
}

type fixture struct {
	svc       *QueueService
	posts     *memPosts
	timeslots *memTimeslots
	events    *memEvents
	user      *model.User
}

func newFixture(cfg model.TimeslotConfig, posts ...model.ScheduledPost) *fixture {
	f := &fixture{
		posts:     newMemPosts(posts...),
		timeslots: &memTimeslots{cfg: cfg},
		events:    &memEvents{},
	}
	clients := &memClients{clients: []*model.Client{{ID: "client-1", AgencyID: "agency1", Name: "Acme"}}}
	f.svc = NewQueueService(f.posts, f.timeslots, clients, f.events, time.UTC, time.Hour, zap.NewNop())
	f.svc.now = func() time.Time { return monday }

	clientID := "client-1"
	f.user = &model.User{ID: 1, TelegramID: 42, AgencyID: "agency1", CurrentClientID: &clientID}
	return f
}

func scheduled(id string, t time.Time) model.ScheduledPost {
	return model.ScheduledPost{
		ID:          id,
		ClientID:    "client-1",
		Text:        "text " + id,
		Status:      model.Scheduled,
		ScheduledAt: model.TimestampPtr(t),
	}
}

func weekdayConfig() model.TimeslotConfig {
	return model.TimeslotConfig{
		model.Monday:  {"09:00": {}, "13:00": {}},
		model.Tuesday: {"09:00": {}, "13:00": {}},
	}
}
