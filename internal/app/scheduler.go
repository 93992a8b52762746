package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionMaintainer то, что планировщик обслуживает в фоне
type SessionMaintainer interface {
	RefreshSessions(ctx context.Context)
	EvictIdle() int
}

// DialogExpirer хранилище незавершённых диалогов бота
type DialogExpirer interface {
	Expire(ttl time.Duration) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions        SessionMaintainer
	dialogs         DialogExpirer
	dialogTTL       time.Duration
	refreshInterval time.Duration
	evictInterval   time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sessions SessionMaintainer, refreshInterval time.Duration, logger *zap.Logger) *Scheduler {
	evict := refreshInterval / 2
	if evict < time.Second {
		evict = time.Second
	}
	return &Scheduler{
		sessions:        sessions,
		refreshInterval: refreshInterval,
		evictInterval:   evict,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// WithDialogs добавляет очистку брошенных диалогов к задаче вытеснения
func (s *Scheduler) WithDialogs(dialogs DialogExpirer, ttl time.Duration) *Scheduler {
	s.dialogs = dialogs
	s.dialogTTL = ttl
	return s
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("refresh_interval", s.refreshInterval),
		zap.Duration("evict_interval", s.evictInterval),
	)

	s.wg.Add(2)
	go s.runEvery(ctx, "queue refresh", s.refreshInterval, s.sessions.RefreshSessions)
	go s.runEvery(ctx, "session eviction", s.evictInterval, s.evict)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) evict(context.Context) {
	sessions := s.sessions.EvictIdle()
	dialogs := 0
	if s.dialogs != nil {
		dialogs = s.dialogs.Expire(s.dialogTTL)
	}
	if sessions > 0 || dialogs > 0 {
		s.logger.Info("Idle state evicted",
			zap.Int("sessions", sessions),
			zap.Int("dialogs", dialogs),
		)
	}
}

func (s *Scheduler) runEvery(ctx context.Context, name string, interval time.Duration, task func(context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			task(ctx)
		case <-s.stopChan:
			s.logger.Info("Background task stopped", zap.String("task", name))
			return
		case <-ctx.Done():
			s.logger.Info("Background task cancelled", zap.String("task", name))
			return
		}
	}
}
