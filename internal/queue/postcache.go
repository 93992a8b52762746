package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrPostNotCached пост отсутствует в загруженном окне
var ErrPostNotCached = errors.New("post is not in the loaded window")

const maxParallelMonthFetches = 4

// PostRepository источник запланированных постов клиента
type PostRepository interface {
	// ListScheduledPosts посты клиента с временем публикации в [from, to)
	ListScheduledPosts(ctx context.Context, clientID string, from, to time.Time) ([]model.ScheduledPost, error)
	UpdatePost(ctx context.Context, clientID, postID string, patch model.PostPatch) error
}

// PostCache кеш запланированных постов клиента по окну месяцев
type PostCache struct {
	clientID string
	repo     PostRepository
	loc      *time.Location
	logger   *zap.Logger
	group    singleflight.Group

	mu          sync.RWMutex
	posts       map[string]model.ScheduledPost
	window      MonthWindow
	fetched     map[MonthKey]bool
	initialized bool
	tracker     *Tracker
	version     uint64
}

// NewPostCache создаёт кеш с окном по умолчанию (текущий и следующий месяц)
func NewPostCache(clientID string, repo PostRepository, now time.Time, logger *zap.Logger) *PostCache {
	return &PostCache{
		clientID: clientID,
		repo:     repo,
		loc:      now.Location(),
		logger:   logger,
		posts:    make(map[string]model.ScheduledPost),
		window:   DefaultWindow(now),
		fetched:  make(map[MonthKey]bool),
		tracker:  NewTracker(),
	}
}

// Init загружает все месяцы окна. Кеш считается инициализированным даже
// если часть месяцев не загрузилась: они просто отсутствуют.
func (c *PostCache) Init(ctx context.Context) error {
	err := c.fetchWindow(ctx)

	c.mu.Lock()
	c.initialized = true
	c.version++
	c.mu.Unlock()

	return err
}

func (c *PostCache) fetchWindow(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelMonthFetches)

	var (
		errMu sync.Mutex
		errs  []error
	)
	for _, m := range c.Window().Keys() {
		m := m
		g.Go(func() error {
			if err := c.EnsureMonth(gctx, m); err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// EnsureMonth добавляет месяц в окно и загружает его, если он ещё не загружен.
// Параллельные вызовы для одного месяца выполняют одну загрузку.
// При ошибке месяц остаётся в окне, но не помечается загруженным.
func (c *PostCache) EnsureMonth(ctx context.Context, m MonthKey) error {
	c.mu.Lock()
	if c.window.Add(m) {
		c.version++
	}
	done := c.fetched[m]
	c.mu.Unlock()
	if done {
		return nil
	}

	_, err, _ := c.group.Do(m.String(), func() (interface{}, error) {
		c.mu.RLock()
		done := c.fetched[m]
		c.mu.RUnlock()
		if done {
			return nil, nil
		}

		posts, err := c.fetchMonth(ctx, m)
		if err != nil {
			c.logger.Warn("Failed to fetch month",
				zap.String("client_id", c.clientID),
				zap.String("month", m.String()),
				zap.Error(err))
			return nil, err
		}

		c.mu.Lock()
		for _, p := range posts {
			if c.tracker.Pending(p.ID) {
				continue
			}
			c.posts[p.ID] = p
		}
		c.fetched[m] = true
		c.version++
		c.mu.Unlock()

		c.logger.Debug("Month loaded",
			zap.String("client_id", c.clientID),
			zap.String("month", m.String()),
			zap.Int("posts", len(posts)))
		return nil, nil
	})
	return err
}

// LoadMoreMonths расширяет окно на месяц вперёд
func (c *PostCache) LoadMoreMonths(ctx context.Context) (MonthKey, error) {
	c.mu.RLock()
	next, ok := c.window.Next()
	c.mu.RUnlock()
	if !ok {
		next = MonthOf(time.Now().In(c.loc))
	}
	return next, c.EnsureMonth(ctx, next)
}

// LoadPreviousMonths расширяет окно на месяц назад
func (c *PostCache) LoadPreviousMonths(ctx context.Context) (MonthKey, error) {
	c.mu.RLock()
	prev, ok := c.window.Previous()
	c.mu.RUnlock()
	if !ok {
		prev = MonthOf(time.Now().In(c.loc))
	}
	return prev, c.EnsureMonth(ctx, prev)
}

// RetryMissing повторяет загрузку месяцев окна, которые не загрузились
func (c *PostCache) RetryMissing(ctx context.Context) error {
	c.mu.RLock()
	var missing []MonthKey
	for _, m := range c.window.Keys() {
		if !c.fetched[m] {
			missing = append(missing, m)
		}
	}
	c.mu.RUnlock()

	var errs []error
	for _, m := range missing {
		if err := c.EnsureMonth(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Refetch перечитывает все месяцы окна. Посты с ожидающими оптимистичными
// обновлениями сохраняют локальное значение. Месяцы, которые не удалось
// перечитать, сохраняют прежние данные. Посты без времени публикации
// отбрасываются.
func (c *PostCache) Refetch(ctx context.Context) error {
	months := c.Window().Keys()
	results := make([][]model.ScheduledPost, len(months))
	failed := make([]error, len(months))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelMonthFetches)
	for i, m := range months {
		i, m := i, m
		g.Go(func() error {
			posts, err := c.fetchMonth(gctx, m)
			if err != nil {
				failed[i] = err
				return nil
			}
			results[i] = posts
			return nil
		})
	}
	_ = g.Wait()

	refreshed := make(map[MonthKey]bool, len(months))
	for i, m := range months {
		if failed[i] == nil {
			refreshed[m] = true
		}
	}

	c.mu.Lock()
	next := make(map[string]model.ScheduledPost, len(c.posts))
	for id, p := range c.posts {
		if c.tracker.Pending(id) {
			next[id] = p
			continue
		}
		m, ok := c.monthOf(p)
		if !ok {
			// снят с плана и подтверждён
			continue
		}
		if refreshed[m] {
			continue
		}
		next[id] = p
	}
	for i := range months {
		for _, p := range results[i] {
			if c.tracker.Pending(p.ID) {
				continue
			}
			next[p.ID] = p
		}
	}
	for m := range refreshed {
		c.fetched[m] = true
	}
	c.posts = next
	c.version++
	c.mu.Unlock()

	var errs []error
	for i, err := range failed {
		if err != nil {
			errs = append(errs, fmt.Errorf("refetch %s: %w", months[i], err))
		}
	}
	return errors.Join(errs...)
}

func (c *PostCache) fetchMonth(ctx context.Context, m MonthKey) ([]model.ScheduledPost, error) {
	from, to := m.Range(c.loc)
	posts, err := c.repo.ListScheduledPosts(ctx, c.clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list posts for %s: %w", m, err)
	}
	return posts, nil
}

func (c *PostCache) monthOf(p model.ScheduledPost) (MonthKey, bool) {
	at, ok := p.ScheduledTime()
	if !ok {
		return MonthKey{}, false
	}
	return MonthOf(at.In(c.loc)), true
}

// OptimisticallyUpdatePost применяет патч локально до подтверждения записи.
// Возвращённый id передаётся в ClearOptimisticUpdate или RollbackOptimisticUpdate.
func (c *PostCache) OptimisticallyUpdatePost(postID string, patch model.PostPatch) (UpdateID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	post, ok := c.posts[postID]
	if !ok {
		return 0, ErrPostNotCached
	}
	id := c.tracker.Begin(postID, &post, patch)
	c.posts[postID] = patch.Apply(post)
	c.version++
	return id, nil
}

// OptimisticallyRemovePost убирает пост локально до подтверждения записи
func (c *PostCache) OptimisticallyRemovePost(postID string) (UpdateID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	post, ok := c.posts[postID]
	if !ok {
		return 0, ErrPostNotCached
	}
	id := c.tracker.BeginRemove(postID, &post)
	delete(c.posts, postID)
	c.version++
	return id, nil
}

// RollbackOptimisticUpdate отменяет одну операцию: пост возвращается к
// последнему подтверждённому значению с учётом остальных незавершённых операций
func (c *PostCache) RollbackOptimisticUpdate(postID string, id UpdateID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.tracker.Rollback(postID, id)
	if !ok {
		return false
	}
	c.setLocked(postID, value)
	return true
}

// RollbackAll откатывает все незавершённые операции, возвращает число постов
func (c *PostCache) RollbackAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, postID := range c.tracker.PendingIDs() {
		if value, ok := c.tracker.RollbackPost(postID); ok {
			c.setLocked(postID, value)
			n++
		}
	}
	return n
}

// ClearOptimisticUpdate подтверждает операцию после успешной записи
func (c *PostCache) ClearOptimisticUpdate(postID string, id UpdateID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.tracker.Commit(postID, id)
	if !ok {
		return false
	}
	c.setLocked(postID, value)
	return true
}

func (c *PostCache) setLocked(postID string, value *model.ScheduledPost) {
	if value != nil {
		c.posts[postID] = *value
	} else {
		delete(c.posts, postID)
	}
	c.version++
}

// InFlight число незавершённых операций над постом
func (c *PostCache) InFlight(postID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracker.InFlight(postID)
}

// Pending ожидает ли пост подтверждения
func (c *PostCache) Pending(postID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracker.Pending(postID)
}

// UpdateState состояние оптимистичного обновления поста
func (c *PostCache) UpdateState(postID string) UpdateState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracker.State(postID)
}

// PendingIDs посты, ожидающие подтверждения
func (c *PostCache) PendingIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tracker.PendingIDs()
}

// Posts копия закешированных постов по возрастанию времени публикации
func (c *PostCache) Posts() []model.ScheduledPost {
	c.mu.RLock()
	out := make([]model.ScheduledPost, 0, len(c.posts))
	for _, p := range c.posts {
		out = append(out, p.Clone())
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, aok := out[i].ScheduledTime()
		b, bok := out[j].ScheduledTime()
		if aok != bok {
			return aok
		}
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Post возвращает копию поста по id
func (c *PostCache) Post(postID string) (model.ScheduledPost, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.posts[postID]
	if !ok {
		return model.ScheduledPost{}, false
	}
	return p.Clone(), true
}

// Window копия окна загруженных месяцев
func (c *PostCache) Window() MonthWindow {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.window.Clone()
}

// Fetched загружен ли месяц
func (c *PostCache) Fetched(m MonthKey) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetched[m]
}

// Initialized завершена ли первичная загрузка
func (c *PostCache) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Version маркер изменений для мемоизации
func (c *PostCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
