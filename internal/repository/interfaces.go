package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/furwell/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// ReservationRepository is the reservation store. Create enforces
	// the single-pending-per-pet and slot-capacity invariants inside
	// the store so concurrent callers cannot slip past a stale read.
	ReservationRepository interface {
		Create(ctx context.Context, r *model.Reservation, capacity int) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
		MarkDone(ctx context.Context, id uuid.UUID) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, int64, error)
		CountBySlot(ctx context.Context, date time.Time, slot string) (int, error)
		SlotCounts(ctx context.Context, date time.Time) (map[string]int, error)
		HasPending(ctx context.Context, petID uuid.UUID) (bool, error)
		DeletePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
		CompletedCountsByMonth(ctx context.Context, year int) (map[int]int, error)
	}

	// PetRepository is the owner-facing pet registry.
	PetRepository interface {
		Create(ctx context.Context, pet *model.Pet) error
		Get(ctx context.Context, id uuid.UUID) (*model.Pet, error)
		GetByName(ctx context.Context, name string) (*model.Pet, error)
		ListByOwner(ctx context.Context, ownerName string, offset, limit int) ([]*model.Pet, int64, error)
		UpdateOwner(ctx context.Context, id uuid.UUID, ownerName string) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	// AdminPetRepository is the admin-maintained registry, disjoint from
	// the owner registry, with a per-pet dated history log.
	AdminPetRepository interface {
		Create(ctx context.Context, pet *model.AdminPet) error
		Get(ctx context.Context, id uuid.UUID) (*model.AdminPet, error)
		GetByName(ctx context.Context, name string) (*model.AdminPet, error)
		Search(ctx context.Context, ownerQuery string, offset, limit int) ([]*model.AdminPet, int64, error)
		Delete(ctx context.Context, id uuid.UUID) error
		AddHistory(ctx context.Context, entry *model.HistoryEntry) error
		UpdateHistory(ctx context.Context, entryID uuid.UUID, date time.Time, note string) error
		DeleteHistory(ctx context.Context, entryID uuid.UUID) error
		ListHistory(ctx context.Context, petID uuid.UUID) ([]*model.HistoryEntry, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		ReleaseStaleClaims(ctx context.Context, claimedBefore time.Time) (int64, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
