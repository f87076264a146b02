package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/pkg/logger"
)

type memOutboxRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*model.OutboxEvent
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
}

func (r *memOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *memOutboxRepo) ClaimPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	claimed := make([]*model.OutboxEvent, 0)
	for _, ev := range r.events {
		if ev.Status == model.OutboxStatusPending {
			ev.Status = model.OutboxStatusProcessing
			now := time.Now()
			ev.ClaimedAt = &now
			cp := *ev
			claimed = append(claimed, &cp)
			if len(claimed) == limit {
				break
			}
		}
	}
	return claimed, nil
}

func (r *memOutboxRepo) ReleaseStaleClaims(_ context.Context, claimedBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var released int64
	for _, ev := range r.events {
		if ev.Status == model.OutboxStatusProcessing && ev.ClaimedAt != nil && ev.ClaimedAt.Before(claimedBefore) {
			ev.Status = model.OutboxStatusPending
			ev.ClaimedAt = nil
			released++
		}
	}
	return released, nil
}

func (r *memOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return errors.New("event not found")
	}
	ev.Status = model.OutboxStatusProcessed
	now := time.Now()
	ev.ProcessedAt = &now
	return nil
}

func (r *memOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev, ok := r.events[id]
	if !ok {
		return errors.New("event not found")
	}
	ev.Status = model.OutboxStatusFailed
	ev.ErrorMessage = &errMsg
	ev.RetryCount++
	return nil
}

func (r *memOutboxRepo) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, ev := range r.events {
		if ev.Status == model.OutboxStatusProcessed && ev.ProcessedAt != nil && ev.ProcessedAt.Before(before) {
			delete(r.events, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memOutboxRepo) statusOf(id uuid.UUID) model.OutboxStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id].Status
}

type stubBroker struct {
	mu        sync.Mutex
	published []string
	failures  int
}

func (b *stubBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *stubBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *stubBroker) Close() error                                             { return nil }

func newProcessor(repo *memOutboxRepo, broker *stubBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), nil)
}

func pendingEvent(t *testing.T, repo *memOutboxRepo, eventType string) *model.OutboxEvent {
	t.Helper()
	ev := &model.OutboxEvent{EventType: eventType, Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(context.Background(), ev))
	return ev
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	repo := newMemOutboxRepo()
	broker := &stubBroker{}
	ev := pendingEvent(t, repo, model.EventReservationCreated)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{model.EventReservationCreated}, broker.published)
	assert.Equal(t, model.OutboxStatusProcessed, repo.statusOf(ev.ID))
}

func TestProcessEventRetriesTransientFailure(t *testing.T) {
	repo := newMemOutboxRepo()
	broker := &stubBroker{failures: 1}
	ev := pendingEvent(t, repo, model.EventReservationCompleted)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	// First attempt fails, the retry succeeds.
	assert.Equal(t, model.OutboxStatusProcessed, repo.statusOf(ev.ID))
}

func TestProcessEventMarksFailedAfterRetriesExhausted(t *testing.T) {
	repo := newMemOutboxRepo()
	broker := &stubBroker{failures: 10}
	ev := pendingEvent(t, repo, model.EventReservationCancelled)

	p := newProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.statusOf(ev.ID))
	assert.Empty(t, broker.published)
}

func TestConcurrentProcessorsPublishOnce(t *testing.T) {
	repo := newMemOutboxRepo()
	broker := &stubBroker{}
	for i := 0; i < 5; i++ {
		pendingEvent(t, repo, model.EventReservationCreated)
	}

	// Two pollers over the same store, the embedded API processor and
	// the worker binary. Claiming flips rows to PROCESSING before either
	// publishes, so each event is delivered exactly once.
	a := newProcessor(repo, broker)
	b := newProcessor(repo, broker)

	var wg sync.WaitGroup
	for _, p := range []*OutboxProcessor{a, b} {
		wg.Add(1)
		go func(p *OutboxProcessor) {
			defer wg.Done()
			assert.NoError(t, p.processEvents(context.Background()))
		}(p)
	}
	wg.Wait()

	assert.Len(t, broker.published, 5)
}

func TestReleaseStaleClaimsRequeues(t *testing.T) {
	repo := newMemOutboxRepo()
	ev := pendingEvent(t, repo, model.EventReservationCreated)

	claimed, err := repo.ClaimPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, model.OutboxStatusProcessing, repo.statusOf(ev.ID))

	// A claim younger than the cutoff stays put.
	released, err := repo.ReleaseStaleClaims(context.Background(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, released)

	released, err = repo.ReleaseStaleClaims(context.Background(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), released)
	assert.Equal(t, model.OutboxStatusPending, repo.statusOf(ev.ID))
}
