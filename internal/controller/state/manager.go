package state

import (
	"sync"
	"time"
)

// Manager хранит диалоги операторов в памяти
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]Dialog // telegramID -> Dialog
	now     func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		dialogs: make(map[int64]Dialog),
		now:     time.Now,
	}
}

// GetState текущий шаг диалога
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dialogs[telegramID].State
}

// Get возвращает диалог оператора
func (sm *Manager) Get(telegramID int64) (Dialog, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	d, ok := sm.dialogs[telegramID]
	return d, ok
}

// Set начинает или заменяет диалог
func (sm *Manager) Set(telegramID int64, d Dialog) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if d.State == StateNone {
		delete(sm.dialogs, telegramID)
		return
	}
	if d.StartedAt.IsZero() {
		d.StartedAt = sm.now()
	}
	sm.dialogs[telegramID] = d
}

// ClearState завершает диалог
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.dialogs, telegramID)
}

// Expire удаляет диалоги старше ttl, возвращает их число
func (sm *Manager) Expire(ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cutoff := sm.now().Add(-ttl)
	n := 0
	for id, d := range sm.dialogs {
		if d.StartedAt.Before(cutoff) {
			delete(sm.dialogs, id)
			n++
		}
	}
	return n
}
