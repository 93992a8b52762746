package app

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// горутина сжатия lumberjack живёт до конца процесса
var ignoreLogRotation = goleak.IgnoreAnyFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun")

type countingMaintainer struct {
	refreshes atomic.Int32
	evictions atomic.Int32
}

func (m *countingMaintainer) RefreshSessions(context.Context) { m.refreshes.Add(1) }
func (m *countingMaintainer) EvictIdle() int                  { m.evictions.Add(1); return 0 }

type countingDialogs struct {
	calls atomic.Int32
}

func (d *countingDialogs) Expire(time.Duration) int { d.calls.Add(1); return 1 }

func TestScheduler_RunsTasksAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogRotation)

	m := &countingMaintainer{}
	d := &countingDialogs{}
	s := NewScheduler(m, 20*time.Millisecond, zap.NewNop()).WithDialogs(d, time.Hour)
	s.evictInterval = 10 * time.Millisecond

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return m.refreshes.Load() >= 2 && m.evictions.Load() >= 2 && d.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreLogRotation)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(&countingMaintainer{}, time.Hour, zap.NewNop())
	s.Start(ctx)

	cancel()
	s.wg.Wait()
}

func TestNewLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	logger := NewLogger("production", path)
	logger.Info("hello", zap.String("client_id", "client-1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"client_id":"client-1"`)
}
