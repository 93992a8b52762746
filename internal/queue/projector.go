package queue

import (
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

type projectionKey struct {
	posts     uint64
	timeslots uint64
	policy    EmptySlotPolicy
	today     string
	statuses  string
	client    ClientInfo
}

// Projector пересчитывает очередь только при изменении входов
type Projector struct {
	clientID  string
	posts     *PostCache
	timeslots *TimeslotStore

	mu     sync.Mutex
	client ClientInfo
	key    projectionKey
	valid  bool
	last   Projection
	runs   int
}

// NewProjector создаёт мемоизированный проектор для клиента
func NewProjector(clientID string, client ClientInfo, posts *PostCache, timeslots *TimeslotStore) *Projector {
	return &Projector{
		clientID:  clientID,
		client:    client,
		posts:     posts,
		timeslots: timeslots,
	}
}

// SetClient обновляет отображаемые данные клиента
func (p *Projector) SetClient(client ClientInfo) {
	p.mu.Lock()
	p.client = client
	p.mu.Unlock()
}

// Project возвращает очередь на момент now
func (p *Projector) Project(now time.Time, policy EmptySlotPolicy, statuses []model.PostStatus) Projection {
	if statuses == nil {
		statuses = QueueStatuses
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	key := projectionKey{
		posts:     p.posts.Version(),
		timeslots: p.timeslots.Version(),
		policy:    policy,
		today:     now.Format(dateLayout),
		statuses:  statusKey(statuses),
		client:    p.client,
	}
	if p.valid && key == p.key {
		return p.last
	}

	p.last = Project(Input{
		ClientID:   p.clientID,
		Client:     p.client,
		Posts:      p.posts.Posts(),
		PostsReady: p.posts.Initialized(),
		Timeslots:  p.timeslots.Snapshot(),
		Months:     p.posts.Window(),
		Policy:     policy,
		Statuses:   statuses,
		Now:        now,
	})
	p.key = key
	p.valid = true
	p.runs++
	return p.last
}

// Invalidate сбрасывает кеш проекции
func (p *Projector) Invalidate() {
	p.mu.Lock()
	p.valid = false
	p.mu.Unlock()
}

// Runs сколько раз проекция реально пересчитывалась
func (p *Projector) Runs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}

func statusKey(statuses []model.PostStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = s.String()
	}
	return strings.Join(parts, "|")
}
