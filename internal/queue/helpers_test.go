package queue

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// 2026-11-30 понедельник, последний день месяца
var monday = time.Date(2026, time.November, 30, 8, 0, 0, 0, time.UTC)

func mondayConfig() model.TimeslotConfig {
	return model.TimeslotConfig{
		model.Monday: {"09:00": {}, "13:00": {}},
	}
}

func readySnapshot(cfg model.TimeslotConfig) TimeslotSnapshot {
	return TimeslotSnapshot{
		Config:          cfg,
		ActiveDays:      cfg.ActiveDays(),
		PredefinedTimes: cfg.PredefinedTimes(),
		Initialized:     true,
	}
}

func scheduledPost(id string, at time.Time) model.ScheduledPost {
	return model.ScheduledPost{
		ID:          id,
		ClientID:    "client-1",
		Text:        "post " + id,
		Status:      model.Scheduled,
		ScheduledAt: model.TimestampPtr(at),
	}
}

type fakePostRepo struct {
	mu        sync.Mutex
	posts     []model.ScheduledPost
	calls     map[string]int
	fail      map[string]error
	updateErr error
	updates   []model.PostPatch
}

func newFakePostRepo(posts ...model.ScheduledPost) *fakePostRepo {
	return &fakePostRepo{
		posts: posts,
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

func (r *fakePostRepo) ListScheduledPosts(_ context.Context, clientID string, from, to time.Time) ([]model.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := MonthOf(from).String()
	r.calls[key]++
	if err := r.fail[key]; err != nil {
		return nil, err
	}

	var out []model.ScheduledPost
	for _, p := range r.posts {
		at, ok := p.ScheduledTime()
		if !ok || p.ClientID != clientID {
			continue
		}
		if !at.Before(from) && at.Before(to) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, _ string, postID string, patch model.PostPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	for i, p := range r.posts {
		if p.ID == postID {
			r.posts[i] = patch.Apply(p)
		}
	}
	r.updates = append(r.updates, patch)
	return nil
}

func (r *fakePostRepo) callsFor(month string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[month]
}

func (r *fakePostRepo) setFail(month string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, month)
		return
	}
	r.fail[month] = err
}

type fakeTimeslotRepo struct {
	cfg     model.TimeslotConfig
	err     error
	saved   model.TimeslotConfig
	saveErr error
}

func (r *fakeTimeslotRepo) GetTimeslots(context.Context, string) (model.TimeslotConfig, error) {
	return r.cfg, r.err
}

func (r *fakeTimeslotRepo) SaveTimeslots(_ context.Context, _ string, cfg model.TimeslotConfig) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = cfg
	return nil
}
