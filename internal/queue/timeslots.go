package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/postqueue_bot/internal/model"
)

// ErrNoActiveTimeslots конфигурация без единого активного дня
var ErrNoActiveTimeslots = errors.New("timeslot configuration has no active days")

// TimeslotRepository хранилище конфигурации таймслотов клиента
type TimeslotRepository interface {
	GetTimeslots(ctx context.Context, clientID string) (model.TimeslotConfig, error)
	SaveTimeslots(ctx context.Context, clientID string, cfg model.TimeslotConfig) error
}

// TimeslotSnapshot неизменяемый снимок конфигурации
type TimeslotSnapshot struct {
	Config          model.TimeslotConfig
	ActiveDays      []model.DayName
	PredefinedTimes []string
	Initialized     bool
	Version         uint64
}

// Configured есть ли хотя бы один активный день
func (s TimeslotSnapshot) Configured() bool {
	return len(s.ActiveDays) > 0
}

// TimeslotStore кеш конфигурации таймслотов одного клиента
type TimeslotStore struct {
	clientID string
	repo     TimeslotRepository

	mu          sync.RWMutex
	config      model.TimeslotConfig
	initialized bool
	version     uint64
}

// NewTimeslotStore создаёт неинициализированное хранилище
func NewTimeslotStore(clientID string, repo TimeslotRepository) *TimeslotStore {
	return &TimeslotStore{clientID: clientID, repo: repo}
}

// Fetch загружает конфигурацию клиента
func (s *TimeslotStore) Fetch(ctx context.Context) (TimeslotSnapshot, error) {
	cfg, err := s.repo.GetTimeslots(ctx, s.clientID)
	if err != nil {
		return s.Snapshot(), fmt.Errorf("fetch timeslots: %w", err)
	}
	if cfg == nil {
		cfg = model.TimeslotConfig{}
	}

	s.mu.Lock()
	s.config = cfg.Clone()
	s.initialized = true
	s.version++
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// Update проверяет и сохраняет новую конфигурацию
func (s *TimeslotStore) Update(ctx context.Context, cfg model.TimeslotConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.ActiveDays()) == 0 {
		return ErrNoActiveTimeslots
	}

	if err := s.repo.SaveTimeslots(ctx, s.clientID, cfg); err != nil {
		return fmt.Errorf("save timeslots: %w", err)
	}

	s.mu.Lock()
	s.config = cfg.Clone()
	s.initialized = true
	s.version++
	s.mu.Unlock()

	return nil
}

// Snapshot текущее состояние
func (s *TimeslotStore) Snapshot() TimeslotSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.config.Clone()
	return TimeslotSnapshot{
		Config:          cfg,
		ActiveDays:      cfg.ActiveDays(),
		PredefinedTimes: cfg.PredefinedTimes(),
		Initialized:     s.initialized,
		Version:         s.version,
	}
}

// Version маркер изменений для мемоизации
func (s *TimeslotStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
