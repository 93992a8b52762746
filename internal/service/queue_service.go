package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
	"github.com/Freeeeeet/postqueue_bot/internal/queue"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// moveToTopGap насколько раньше первого поста ставится поднятый пост
	moveToTopGap = 30 * time.Minute

	maxParallelRefreshes = 4
)

type sessionKey struct {
	telegramID int64
	clientID   string
}

func (k sessionKey) String() string {
	return strconv.FormatInt(k.telegramID, 10) + "/" + k.clientID
}

// QueueService держит сессии очереди по паре (оператор, клиент)
type QueueService struct {
	posts     queue.PostRepository
	timeslots queue.TimeslotRepository
	clients   ClientStore
	events    EventStore
	loc       *time.Location
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger

	group    singleflight.Group
	mu       sync.Mutex
	sessions map[sessionKey]*QueueSession
}

func NewQueueService(
	posts queue.PostRepository,
	timeslots queue.TimeslotRepository,
	clients ClientStore,
	events EventStore,
	loc *time.Location,
	ttl time.Duration,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		posts:     posts,
		timeslots: timeslots,
		clients:   clients,
		events:    events,
		loc:       loc,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
		sessions:  make(map[sessionKey]*QueueSession),
	}
}

func (s *QueueService) clock() time.Time {
	return s.now().In(s.loc)
}

// Session возвращает сессию текущего клиента оператора, открывая её при необходимости
func (s *QueueService) Session(ctx context.Context, user *model.User) (*QueueSession, error) {
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.CurrentClientID == nil || *user.CurrentClientID == "" {
		return nil, ErrNoClientSelected
	}
	key := sessionKey{telegramID: user.TelegramID, clientID: *user.CurrentClientID}

	if sess := s.lookup(key); sess != nil {
		return sess, nil
	}

	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		if sess := s.lookup(key); sess != nil {
			return sess, nil
		}
		sess, err := s.open(ctx, key, user.AgencyID)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.sessions[key] = sess
		s.mu.Unlock()
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*QueueSession), nil
}

func (s *QueueService) lookup(key sessionKey) *QueueSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil
	}
	sess.touch(s.clock())
	return sess
}

func (s *QueueService) open(ctx context.Context, key sessionKey, agencyID string) (*QueueSession, error) {
	client, err := s.clients.GetByID(ctx, agencyID, key.clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	now := s.clock()
	logger := s.logger.With(
		zap.Int64("telegram_id", key.telegramID),
		zap.String("client_id", key.clientID),
	)
	sess := &QueueSession{
		key:      key,
		client:   *client,
		cache:    queue.NewPostCache(key.clientID, s.posts, now, logger),
		store:    queue.NewTimeslotStore(key.clientID, s.timeslots),
		gesture:  queue.NewGesture(),
		posts:    s.posts,
		events:   s.events,
		now:      s.clock,
		logger:   logger,
		lastUsed: now,
	}
	sess.projector = queue.NewProjector(key.clientID, queue.ClientInfo{Name: client.Name, AvatarURL: client.AvatarURL}, sess.cache, sess.store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// недоступные месяцы просто отсутствуют в очереди
		if err := sess.cache.Init(gctx); err != nil {
			logger.Warn("Some months failed to load", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		// очередь показывается и без таймслотов, Refresh повторит загрузку
		if _, err := sess.store.Fetch(gctx); err != nil {
			logger.Warn("Timeslots failed to load", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	logger.Info("Queue session opened",
		zap.Strings("months", sess.cache.Window().Strings()),
		zap.Int("posts", len(sess.cache.Posts())),
	)
	return sess, nil
}

// Close закрывает сессию оператора с клиентом
func (s *QueueService) Close(telegramID int64, clientID string) {
	s.mu.Lock()
	delete(s.sessions, sessionKey{telegramID: telegramID, clientID: clientID})
	s.mu.Unlock()
}

// EvictIdle удаляет сессии, не использовавшиеся дольше TTL
func (s *QueueService) EvictIdle() int {
	cutoff := s.clock().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, key)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info("Idle queue sessions evicted", zap.Int("count", evicted))
	}
	return evicted
}

// RefreshSessions перечитывает данные всех открытых сессий
func (s *QueueService) RefreshSessions(ctx context.Context) {
	s.mu.Lock()
	sessions := make([]*QueueSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRefreshes)
	for _, sess := range sessions {
		sess := sess
		g.Go(func() error {
			if err := sess.Refresh(gctx); err != nil {
				sess.logger.Warn("Queue refresh failed", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

// SessionCount число открытых сессий
func (s *QueueService) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// History последние переносы постов клиента
func (s *QueueService) History(ctx context.Context, clientID string, limit int) ([]*model.ScheduleEvent, error) {
	events, err := s.events.ListRecent(ctx, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return events, nil
}

// QueueSession очередь одного клиента для одного оператора
type QueueSession struct {
	key       sessionKey
	client    model.Client
	cache     *queue.PostCache
	store     *queue.TimeslotStore
	projector *queue.Projector
	gesture   *queue.Gesture
	posts     queue.PostRepository
	events    EventStore
	now       func() time.Time
	logger    *zap.Logger

	mu       sync.Mutex
	policy   queue.EmptySlotPolicy
	lastUsed time.Time
}

func (q *QueueSession) touch(now time.Time) {
	q.mu.Lock()
	q.lastUsed = now
	q.mu.Unlock()
}

// LastUsed время последнего обращения
func (q *QueueSession) LastUsed() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastUsed
}

// Client клиент сессии
func (q *QueueSession) Client() model.Client {
	return q.client
}

// Now текущее время в зоне сервиса
func (q *QueueSession) Now() time.Time {
	return q.now()
}

// Policy показываются ли пустые слоты
func (q *QueueSession) Policy() queue.EmptySlotPolicy {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.policy
}

// ToggleEmptySlots переключает показ пустых слотов
func (q *QueueSession) ToggleEmptySlots() queue.EmptySlotPolicy {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.policy == queue.EmptySlotsVisible {
		q.policy = queue.EmptySlotsHidden
	} else {
		q.policy = queue.EmptySlotsVisible
	}
	return q.policy
}

// View очередь по дням
func (q *QueueSession) View() queue.Projection {
	return q.projector.Project(q.now(), q.Policy(), queue.QueueStatuses)
}

// DayView все посты дня, включая опубликованные и ошибки
func (q *QueueSession) DayView(date time.Time) (queue.DayGroup, bool) {
	p := q.projector.Project(q.now(), queue.EmptySlotsHidden, queue.DayDetailStatuses)
	return p.Group(date.In(q.now().Location()).Format("2006-01-02"))
}

// CalendarView посты всех статусов дня вместе с пустыми слотами, для картинки недели
func (q *QueueSession) CalendarView() queue.Projection {
	return q.projector.Project(q.now(), queue.EmptySlotsVisible, queue.DayDetailStatuses)
}

// EnsureRange догружает месяцы, которые задевает интервал [from, to]
func (q *QueueSession) EnsureRange(ctx context.Context, from, to time.Time) error {
	var errs []error
	for m := queue.MonthOf(from); !queue.MonthOf(to).Before(m); m = m.Add(1) {
		if err := q.cache.EnsureMonth(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Post пост из загруженного окна
func (q *QueueSession) Post(postID string) (model.ScheduledPost, bool) {
	return q.cache.Post(postID)
}

// QueueSlots запланированные посты по возрастанию времени
func (q *QueueSession) QueueSlots() []queue.FilledSlot {
	return q.View().QueueSlots()
}

// DayGroups дата -> слоты
func (q *QueueSession) DayGroups() map[string][]queue.Slot {
	return q.View().DayGroups()
}

// Timeslots снимок конфигурации таймслотов
func (q *QueueSession) Timeslots() queue.TimeslotSnapshot {
	return q.store.Snapshot()
}

// HasTimeslotsConfigured есть ли хотя бы один активный день
func (q *QueueSession) HasTimeslotsConfigured() bool {
	return q.store.Snapshot().Configured()
}

// Months загруженные месяцы
func (q *QueueSession) Months() queue.MonthWindow {
	return q.cache.Window()
}

// Refresh перечитывает таймслоты и все загруженные месяцы
func (q *QueueSession) Refresh(ctx context.Context) error {
	var errs []error
	if _, err := q.store.Fetch(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := q.cache.Refetch(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := q.cache.RetryMissing(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadMoreDays добавляет следующий месяц
func (q *QueueSession) LoadMoreDays(ctx context.Context) (queue.MonthKey, error) {
	m, err := q.cache.LoadMoreMonths(ctx)
	if err != nil {
		return m, fmt.Errorf("load %s: %w", m, err)
	}
	q.logger.Debug("Loaded more months", zap.String("month", m.String()))
	return m, nil
}

// LoadPreviousDays добавляет предыдущий месяц
func (q *QueueSession) LoadPreviousDays(ctx context.Context) (queue.MonthKey, error) {
	m, err := q.cache.LoadPreviousMonths(ctx)
	if err != nil {
		return m, fmt.Errorf("load %s: %w", m, err)
	}
	return m, nil
}

// StartDrag берёт пост из очереди
func (q *QueueSession) StartDrag(postID string) error {
	slot, ok := q.View().FindSlot(postID)
	if !ok {
		return ErrPostNotInQueue
	}
	return q.gesture.Start(slot)
}

// DragOver запоминает цель наведения
func (q *QueueSession) DragOver(slotID string) error {
	return q.gesture.Over(slotID)
}

// Drop бросает пост на слот. Неизвестный слот отменяет жест.
func (q *QueueSession) Drop(slotID string) (queue.DropOutcome, error) {
	target, _ := q.View().FindSlot(slotID)
	return q.gesture.Drop(target, q.Policy())
}

// EndDrag отменяет жест
func (q *QueueSession) EndDrag() {
	q.gesture.End()
}

// DragSource перетаскиваемый пост, если жест активен
func (q *QueueSession) DragSource() (queue.FilledSlot, bool) {
	return q.gesture.Source()
}

// ApplyReorder переставляет пост внутри дня. Если цель занята, посты меняются временем.
func (q *QueueSession) ApplyReorder(ctx context.Context, outcome queue.DropOutcome, telegramID int64) (queue.Validation, error) {
	if outcome.Kind != queue.OutcomeReorder {
		return queue.Validation{}, fmt.Errorf("apply reorder: unexpected outcome %s", outcome.Kind)
	}

	targetAt := outcome.Target.Time()
	v := queue.ValidateReschedule(startOfDay(targetAt), targetAt.Format("15:04"), q.now())
	if !v.Valid {
		return v, nil
	}

	sourceAt := outcome.Source.Time()
	changes := []postChange{moveTo(outcome.Source.ID(), &sourceAt, targetAt)}
	if other, ok := outcome.Target.(queue.FilledSlot); ok {
		// вытесненный пост встаёт на время источника, оно тоже проверяется
		if sv := queue.ValidateReschedule(startOfDay(sourceAt), sourceAt.Format("15:04"), q.now()); !sv.Valid {
			return sv, nil
		}
		otherAt := other.Time()
		changes = append(changes, moveTo(other.ID(), &otherAt, sourceAt))
	}

	return v, q.apply(ctx, model.EventReasonReorder, telegramID, changes...)
}

// Reschedule переносит пост на дату и время после проверки
func (q *QueueSession) Reschedule(ctx context.Context, postID string, date time.Time, clock string, telegramID int64) (queue.Validation, error) {
	now := q.now()
	v := queue.ValidateReschedule(date, clock, now)
	if !v.Valid {
		return v, nil
	}

	post, ok := q.cache.Post(postID)
	if !ok {
		return v, ErrPostNotInQueue
	}
	local := date.In(now.Location())
	at, err := queue.CombineDateClock(startOfDay(local), clock)
	if err != nil {
		return queue.Validation{Message: queue.MsgInvalidTime}, nil
	}

	var from *time.Time
	if t, ok := post.ScheduledTime(); ok {
		from = &t
	}
	return v, q.apply(ctx, model.EventReasonReschedule, telegramID, moveTo(postID, from, at))
}

// RemoveFromQueue снимает пост с плана и возвращает в черновики
func (q *QueueSession) RemoveFromQueue(ctx context.Context, postID string, telegramID int64) error {
	post, ok := q.cache.Post(postID)
	if !ok {
		return ErrPostNotInQueue
	}

	status := model.Drafted
	change := postChange{
		postID: postID,
		patch:  model.PostPatch{ClearSchedule: true, Status: &status},
	}
	if t, ok := post.ScheduledTime(); ok {
		change.from = &t
	}
	return q.apply(ctx, model.EventReasonRemove, telegramID, change)
}

// MoveToTop ставит пост на 30 минут раньше первого другого поста очереди
func (q *QueueSession) MoveToTop(ctx context.Context, postID string, telegramID int64) error {
	slots := q.QueueSlots()

	var (
		source   *queue.FilledSlot
		earliest *queue.FilledSlot
	)
	for i := range slots {
		if slots[i].ID() == postID {
			source = &slots[i]
			continue
		}
		if earliest == nil {
			earliest = &slots[i]
		}
	}
	if source == nil {
		return ErrPostNotInQueue
	}
	if earliest == nil {
		return ErrNothingAhead
	}

	at := earliest.Time().Add(-moveToTopGap)
	if at.Before(q.now().Add(queue.MinLeadTime)) {
		return ErrMoveTooLate
	}

	from := source.Time()
	return q.apply(ctx, model.EventReasonMoveToTop, telegramID, moveTo(postID, &from, at))
}

// UpdateTimeslots сохраняет новую сетку таймслотов
func (q *QueueSession) UpdateTimeslots(ctx context.Context, cfg model.TimeslotConfig) error {
	snapshot := q.store.Snapshot()
	if !snapshot.Initialized {
		return ErrTimeslotsNotReady
	}
	cfg = KeepProfiles(cfg, snapshot.Config)

	if err := q.store.Update(ctx, cfg); err != nil {
		return fmt.Errorf("update timeslots: %w", err)
	}

	q.logger.Info("Timeslots updated",
		zap.Int("active_days", len(cfg.ActiveDays())),
		zap.Strings("times", cfg.PredefinedTimes()),
	)
	return nil
}

type postChange struct {
	postID string
	patch  model.PostPatch
	from   *time.Time
	to     *time.Time
}

func moveTo(postID string, from *time.Time, to time.Time) postChange {
	return postChange{
		postID: postID,
		patch:  model.PostPatch{ScheduledAt: model.TimestampPtr(to)},
		from:   from,
		to:     &to,
	}
}

// apply применяет изменения оптимистично, затем пишет их по одному.
// При ошибке незаписанные изменения откатываются, а если часть уже
// записана, кеш перечитывается из хранилища.
func (q *QueueSession) apply(ctx context.Context, reason string, telegramID int64, changes ...postChange) error {
	ids := make([]queue.UpdateID, len(changes))
	for i, c := range changes {
		id, err := q.cache.OptimisticallyUpdatePost(c.postID, c.patch)
		if err != nil {
			for j, prev := range changes[:i] {
				q.cache.RollbackOptimisticUpdate(prev.postID, ids[j])
			}
			return ErrPostNotInQueue
		}
		ids[i] = id
	}

	for i, c := range changes {
		if err := q.posts.UpdatePost(ctx, q.key.clientID, c.postID, c.patch); err != nil {
			for j := i; j < len(changes); j++ {
				q.cache.RollbackOptimisticUpdate(changes[j].postID, ids[j])
			}
			q.logger.Error("Post update failed, rolled back",
				zap.String("post_id", c.postID),
				zap.String("reason", reason),
				zap.Error(err),
			)
			if i > 0 {
				if rerr := q.cache.Refetch(ctx); rerr != nil {
					q.logger.Warn("Refetch after partial write failed", zap.Error(rerr))
				}
			}
			return fmt.Errorf("update post %s: %w", c.postID, err)
		}
		q.cache.ClearOptimisticUpdate(c.postID, ids[i])
		q.record(ctx, reason, telegramID, c)
	}

	q.logger.Info("Queue updated",
		zap.String("reason", reason),
		zap.Int("posts", len(changes)),
	)
	return nil
}

func (q *QueueSession) record(ctx context.Context, reason string, telegramID int64, c postChange) {
	event := &model.ScheduleEvent{
		PostID:     c.postID,
		ClientID:   q.key.clientID,
		FromTime:   c.from,
		ToTime:     c.to,
		Reason:     reason,
		TelegramID: telegramID,
	}
	if err := q.events.Create(ctx, event); err != nil {
		q.logger.Warn("Failed to record schedule event",
			zap.String("post_id", c.postID),
			zap.Error(err),
		)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
