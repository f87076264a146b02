package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
	apperr "github.com/furwell/clinic-api/pkg/errors"
)

// pendingPetConstraint is the partial unique index that keeps at most one
// pending reservation per pet.
const pendingPetConstraint = "reservations_pending_pet_idx"

type reservationRepository struct {
	BaseRepository
}

func NewReservationRepository(db *sqlx.DB) repository.ReservationRepository {
	return &reservationRepository{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a pending reservation while holding a transaction-scoped
// advisory lock on the (date, slot) pair, so two concurrent bookings for
// the same slot serialize on the capacity count. The duplicate-pending
// invariant is enforced by the partial unique index regardless of locking.
func (r *reservationRepository) Create(ctx context.Context, res *model.Reservation, capacity int) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `SELECT pg_advisory_xact_lock(hashtext($1))`
		slotKey := fmt.Sprintf("%s|%s", res.Date.Format("2006-01-02"), res.TimeSlot)
		if _, err := tx.ExecContext(ctx, lockQuery, slotKey); err != nil {
			return storeErr(err)
		}

		var count int
		countQuery := `SELECT COUNT(*) FROM reservations WHERE reserved_date = $1 AND time_slot = $2`
		if err := tx.GetContext(ctx, &count, countQuery, res.Date, res.TimeSlot); err != nil {
			return storeErr(err)
		}
		if count >= capacity {
			return apperr.SlotFull(res.Date.Format("2006-01-02"), res.TimeSlot, nil)
		}

		insertQuery := `
			INSERT INTO reservations (
				id, pet_id, pet_name, breed, owner_name,
				reserved_date, time_slot, note, vet_card, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.ExecContext(ctx, insertQuery,
			res.ID,
			res.PetID,
			res.PetName,
			res.Breed,
			res.OwnerName,
			res.Date,
			res.TimeSlot,
			res.Note,
			res.VetCard,
			res.Status,
			res.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err, pendingPetConstraint) {
				return apperr.DuplicatePendingReservation(err)
			}
			return storeErr(err)
		}
		return nil
	})
}

func (r *reservationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	query := `
		SELECT id, pet_id, pet_name, breed, owner_name,
		       reserved_date, time_slot, note, vet_card, status, created_at
		FROM reservations
		WHERE id = $1
	`
	var res model.Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("reservation", err)
		}
		return nil, storeErr(err)
	}
	return &res, nil
}

func (r *reservationRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE reservations SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, model.ReservationStatusDone, id)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return apperr.NotFound("reservation", nil)
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reservations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return apperr.NotFound("reservation", nil)
	}
	return nil
}

func (r *reservationRepository) List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.PetID != uuid.Nil {
		where += fmt.Sprintf(" AND pet_id = $%d", argCount)
		args = append(args, filters.PetID)
		argCount++
	}
	if filters.OwnerName != "" {
		where += fmt.Sprintf(" AND owner_name = $%d", argCount)
		args = append(args, filters.OwnerName)
		argCount++
	}
	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		where += fmt.Sprintf(" AND reserved_date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		where += fmt.Sprintf(" AND reserved_date < $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM reservations` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, storeErr(err)
	}

	order := " ORDER BY reserved_date ASC, time_slot ASC"
	if filters.NewestFirst {
		order = " ORDER BY reserved_date DESC, time_slot DESC"
	}

	query := `
		SELECT id, pet_id, pet_name, breed, owner_name,
		       reserved_date, time_slot, note, vet_card, status, created_at
		FROM reservations` + where + order

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	var reservations []*model.Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, 0, storeErr(err)
	}
	return reservations, total, nil
}

func (r *reservationRepository) CountBySlot(ctx context.Context, date time.Time, slot string) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE reserved_date = $1 AND time_slot = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, slot); err != nil {
		return 0, storeErr(err)
	}
	return count, nil
}

func (r *reservationRepository) SlotCounts(ctx context.Context, date time.Time) (map[string]int, error) {
	query := `
		SELECT time_slot, COUNT(*) AS count
		FROM reservations
		WHERE reserved_date = $1
		GROUP BY time_slot
	`
	rows, err := r.db.QueryxContext(ctx, query, date)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slot string
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, storeErr(err)
		}
		counts[slot] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return counts, nil
}

func (r *reservationRepository) HasPending(ctx context.Context, petID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE pet_id = $1 AND status = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, petID, model.ReservationStatusPending); err != nil {
		return false, storeErr(err)
	}
	return exists, nil
}

// DeletePendingBefore bulk-deletes pending reservations dated strictly
// before the cutoff. Done reservations are kept as permanent history.
func (r *reservationRepository) DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM reservations WHERE reserved_date < $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, cutoff, model.ReservationStatusPending)
	if err != nil {
		return 0, storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr(err)
	}
	return rows, nil
}

func (r *reservationRepository) CompletedCountsByMonth(ctx context.Context, year int) (map[int]int, error) {
	query := `
		SELECT EXTRACT(MONTH FROM reserved_date)::int AS month, COUNT(*) AS count
		FROM reservations
		WHERE status = $1 AND EXTRACT(YEAR FROM reserved_date) = $2
		GROUP BY month
	`
	rows, err := r.db.QueryxContext(ctx, query, model.ReservationStatusDone, year)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var month, count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, storeErr(err)
		}
		counts[month] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return counts, nil
}
