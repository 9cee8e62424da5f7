package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/receiving/pkg/application/dto"
	"github.com/vsinha/receiving/pkg/infrastructure/lock"
	"github.com/vsinha/receiving/pkg/infrastructure/logging"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) ReconcilePending(ctx context.Context) (*dto.PendingRun, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.PendingRun{Attempted: 1, Matched: 1}, nil
}

func TestNew_InvalidSchedule(t *testing.T) {
	_, err := New("every tuesday", &countingRunner{}, nil)
	assert.Error(t, err)

	_, err = New("*/5 * * * *", nil, nil)
	assert.EqualError(t, err, "pending reconciler cannot be nil")
}

func TestScheduler_RunOnce(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithOutput("debug", "json", &buf)
	require.NoError(t, err)

	runner := &countingRunner{}
	s, err := New("*/5 * * * *", runner, logger)
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), runner.calls.Load())
	assert.Contains(t, buf.String(), "pending reconciliation job finished")

	buf.Reset()
	runner.err = errors.New("database unavailable")
	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), runner.calls.Load())
	assert.Contains(t, buf.String(), "database unavailable")
	assert.Contains(t, buf.String(), `"module":"scheduler"`)
}

func TestScheduler_StartStop(t *testing.T) {
	logger, err := logging.NewWithOutput("info", "text", &bytes.Buffer{})
	require.NoError(t, err)

	runner := &countingRunner{}
	s, err := New("@every 1s", runner, logger)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return runner.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type memoryLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
}

type memoryLease struct {
	locker *memoryLocker
	key    string
}

func (l *memoryLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (lock.Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, lock.ErrNotObtained
	}
	l.held[key] = true
	return &memoryLease{locker: l, key: key}, nil
}

func (l *memoryLease) Release(ctx context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	delete(l.locker.held, l.key)
	l.locker.released++
	return nil
}

func TestScheduler_RunOnceWithLocker(t *testing.T) {
	logger, err := logging.NewWithOutput("debug", "json", &bytes.Buffer{})
	require.NoError(t, err)

	locker := &memoryLocker{held: make(map[string]bool)}
	runner := &countingRunner{}
	s, err := New("*/5 * * * *", runner, logger, WithLocker(locker), WithTimeout(time.Second))
	require.NoError(t, err)

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), runner.calls.Load())
	assert.Equal(t, 1, locker.released)

	// Another instance holds the lock
	locker.held[LockKey] = true
	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), runner.calls.Load())
}
