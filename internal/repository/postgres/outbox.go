package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.RetryCount,
		event.CreatedAt,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// ClaimPendingEvents atomically flips a batch of pending rows to
// PROCESSING and returns them. The claim survives the statement, so
// concurrent pollers (the API-embedded processor and the worker binary)
// cannot publish the same event twice; SKIP LOCKED in the inner select
// keeps two simultaneous claims from blocking on each other.
func (r *outboxRepository) ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, claimed_at = now()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, error_message, retry_count, created_at, claimed_at, processed_at
	`
	var events []*model.OutboxEvent
	err := r.db.SelectContext(ctx, &events, query,
		model.OutboxStatusProcessing, model.OutboxStatusPending, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE outbox_events SET status = $1, processed_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, time.Now(), id)
	return storeErr(err)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, retry_count = retry_count + 1
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, model.OutboxStatusFailed, errMsg, id)
	return storeErr(err)
}

// ReleaseStaleClaims requeues PROCESSING rows claimed before the cutoff,
// recovering events stranded by a processor that died mid-batch.
func (r *outboxRepository) ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, claimed_at = NULL
		WHERE status = $2 AND claimed_at < $3
	`
	result, err := r.db.ExecContext(ctx, query,
		model.OutboxStatusPending, model.OutboxStatusProcessing, claimedBefore)
	if err != nil {
		return 0, storeErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	return rows, nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`
	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, before)
	if err != nil {
		return 0, storeErr(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	return rows, nil
}
