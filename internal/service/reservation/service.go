package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
	apperr "github.com/furwell/clinic-api/pkg/errors"
	"github.com/furwell/clinic-api/pkg/logger"
)

// Emitter records lifecycle events for asynchronous publication.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

type Service struct {
	repo   repository.ReservationRepository
	pets   repository.PetRepository
	events Emitter
	logger *logger.Logger
	slots  *slotCache
}

func NewService(repo repository.ReservationRepository, pets repository.PetRepository, events Emitter, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		pets:   pets,
		events: events,
		logger: log,
		slots:  newSlotCache(),
	}
}

// atMidnight strips the time-of-day so reservations compare by calendar day.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CreateReservation books a consultation slot for a pet. The pet must
// exist, must not already have a pending reservation, and the slot must
// have capacity left; both invariants are enforced by the store's atomic
// insert so concurrent requests cannot both succeed.
func (s *Service) CreateReservation(ctx context.Context, petID uuid.UUID, date time.Time, slot, note string) (*model.Reservation, error) {
	if date.IsZero() {
		return nil, apperr.InvalidDate("reservation date is required", nil)
	}
	if slot == "" {
		return nil, apperr.InvalidDate("time slot is required", nil)
	}
	if note == "" {
		return nil, apperr.BadRequest("note is required", nil)
	}

	pet, err := s.pets.Get(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pet: %w", err)
	}

	res := &model.Reservation{
		ID:        uuid.New(),
		PetID:     pet.ID,
		PetName:   pet.PetName,
		Breed:     pet.Breed,
		OwnerName: pet.OwnerName,
		Date:      atMidnight(date),
		TimeSlot:  slot,
		Note:      note,
		VetCard:   pet.VetCard,
		Status:    model.ReservationStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, res, model.MaxSlotCapacity); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.slots.Invalidate(res.Date)
	s.emit(ctx, model.EventReservationCreated, res)
	return res, nil
}

// MarkDone completes a reservation. Re-invoking on an already-done record
// is a no-op success.
func (s *Service) MarkDone(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	if res.Status == model.ReservationStatusDone {
		return res, nil
	}

	if err := s.repo.MarkDone(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to mark reservation done: %w", err)
	}

	res.Status = model.ReservationStatusDone
	s.emit(ctx, model.EventReservationCompleted, res)
	return res, nil
}

// Cancel removes a reservation outright, whatever its status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.emit(ctx, model.EventReservationCancelled, map[string]interface{}{"id": id})
	return nil
}

// DeleteRecord is Cancel under the name the admin history view calls it by.
// The callers differ, the semantics do not.
func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.Cancel(ctx, id)
}

func (s *Service) GetReservation(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, nil
}

func (s *Service) ListReservations(ctx context.Context, filters *model.ReservationFilters) ([]*model.Reservation, int64, error) {
	reservations, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, total, nil
}

// ListUpcoming returns pending reservations dated today or later, the
// admin booking queue.
func (s *Service) ListUpcoming(ctx context.Context, offset, limit int) ([]*model.Reservation, int64, error) {
	return s.ListReservations(ctx, &model.ReservationFilters{
		Status:    model.ReservationStatusPending,
		StartDate: atMidnight(time.Now()),
		Offset:    offset,
		Limit:     limit,
	})
}

// ListForDay returns all reservations on a single calendar day.
func (s *Service) ListForDay(ctx context.Context, day time.Time, status model.ReservationStatus, offset, limit int) ([]*model.Reservation, int64, error) {
	start := atMidnight(day)
	return s.ListReservations(ctx, &model.ReservationFilters{
		Status:    status,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Offset:    offset,
		Limit:     limit,
	})
}

// HasPendingForPet reports whether the pet currently holds a pending
// reservation, for list views that surface a booking flag.
func (s *Service) HasPendingForPet(ctx context.Context, petID uuid.UUID) (bool, error) {
	pending, err := s.repo.HasPending(ctx, petID)
	if err != nil {
		return false, fmt.Errorf("failed to check pending reservation: %w", err)
	}
	return pending, nil
}

func (s *Service) emit(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, eventType, payload); err != nil && s.logger != nil {
		s.logger.Warn("failed to record reservation event", "event_type", eventType)
	}
}
