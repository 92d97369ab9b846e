//go:build unit

package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"villa-reservation/internal/infra/db"
	"villa-reservation/internal/infra/messaging"
	"villa-reservation/internal/infra/outbox"
	"villa-reservation/internal/infra/repository"
	"villa-reservation/internal/pkg/clock"
	"villa-reservation/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type passthroughTx struct{}

func (passthroughTx) WithinDB(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return fn(ctx, nil)
}

type rescheduled struct {
	runAt     time.Time
	lastError string
}

type memoryJobs struct {
	mu          sync.Mutex
	due         []repository.NotificationJob
	sent        []uuid.UUID
	dead        []uuid.UUID
	rescheduled map[uuid.UUID]rescheduled
}

func (m *memoryJobs) ClaimDue(_ context.Context, _ db.DBTX, _ time.Time, limit int) ([]repository.NotificationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := min(limit, len(m.due))
	out := m.due[:n]
	m.due = m.due[n:]
	return out, nil
}

func (m *memoryJobs) MarkSent(_ context.Context, _ db.DBTX, id uuid.UUID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, id)
	return nil
}

func (m *memoryJobs) Reschedule(_ context.Context, _ db.DBTX, id uuid.UUID, runAt time.Time, lastError string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rescheduled == nil {
		m.rescheduled = map[uuid.UUID]rescheduled{}
	}
	m.rescheduled[id] = rescheduled{runAt: runAt, lastError: lastError}
	return nil
}

func (m *memoryJobs) MarkDead(_ context.Context, _ db.DBTX, id uuid.UUID, _ string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dead = append(m.dead, id)
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []messaging.Message
	fail     map[string]error
}

func (n *recordingNotifier) Notify(_ context.Context, msg messaging.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[msg.ID]; err != nil {
		return err
	}
	n.messages = append(n.messages, msg)
	return nil
}

func job(attempts int) repository.NotificationJob {
	return repository.NotificationJob{
		ID:       uuid.New(),
		Kind:     "booking.created",
		Topic:    "villa.booking.created",
		Payload:  []byte(`{"kind":"booking.created"}`),
		RunAt:    now,
		Attempts: attempts,
	}
}

func newDispatcher(jobs *memoryJobs, n messaging.Notifier, maxAttempts int) *outbox.Dispatcher {
	return outbox.NewDispatcher(passthroughTx{}, jobs, n, clock.NewMockClock(now), config.NotifyConfig{
		PollInterval: 10 * time.Millisecond,
		BatchSize:    10,
		MaxAttempts:  maxAttempts,
	})
}

func TestDispatcher_RunOnce(t *testing.T) {
	t.Run("delivers due jobs and marks them sent", func(t *testing.T) {
		a, b := job(0), job(0)
		jobs := &memoryJobs{due: []repository.NotificationJob{a, b}}
		n := &recordingNotifier{}

		sent, err := newDispatcher(jobs, n, 5).RunOnce(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, sent)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, jobs.sent)
		require.Len(t, n.messages, 2)
		assert.Equal(t, a.ID.String(), n.messages[0].ID)
		assert.Equal(t, "villa.booking.created", n.messages[0].Topic)
	})

	t.Run("failed delivery is rescheduled with backoff", func(t *testing.T) {
		ok, bad := job(0), job(2)
		jobs := &memoryJobs{due: []repository.NotificationJob{bad, ok}}
		n := &recordingNotifier{fail: map[string]error{bad.ID.String(): errors.New("broker closed")}}

		sent, err := newDispatcher(jobs, n, 5).RunOnce(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, sent)
		assert.Equal(t, []uuid.UUID{ok.ID}, jobs.sent)
		r, found := jobs.rescheduled[bad.ID]
		require.True(t, found)
		assert.Equal(t, now.Add(20*time.Second), r.runAt)
		assert.Equal(t, "broker closed", r.lastError)
	})

	t.Run("job out of attempts is dead-lettered", func(t *testing.T) {
		bad := job(4)
		jobs := &memoryJobs{due: []repository.NotificationJob{bad}}
		n := &recordingNotifier{fail: map[string]error{bad.ID.String(): errors.New("broker closed")}}

		_, err := newDispatcher(jobs, n, 5).RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bad.ID}, jobs.dead)
		assert.Empty(t, jobs.rescheduled)
	})

	t.Run("nothing due", func(t *testing.T) {
		sent, err := newDispatcher(&memoryJobs{}, &recordingNotifier{}, 5).RunOnce(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}

func TestDispatcher_StartStop(t *testing.T) {
	j := job(0)
	jobs := &memoryJobs{due: []repository.NotificationJob{j}}
	d := newDispatcher(jobs, messaging.NewLogNotifier(), 5)

	d.Start()
	assert.Eventually(t, func() bool {
		jobs.mu.Lock()
		defer jobs.mu.Unlock()
		return len(jobs.sent) == 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
}
