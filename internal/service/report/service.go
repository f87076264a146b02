package report

import (
	"context"
	"fmt"
	"time"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
	apperr "github.com/furwell/clinic-api/pkg/errors"
)

// Service derives dashboard and history views from the reservation store.
// It cross-references the admin pet registry but never mutates either store.
type Service struct {
	reservations repository.ReservationRepository
	adminPets    repository.AdminPetRepository
}

func NewService(reservations repository.ReservationRepository, adminPets repository.AdminPetRepository) *Service {
	return &Service{
		reservations: reservations,
		adminPets:    adminPets,
	}
}

// MonthlyCompletedCounts groups done reservations by calendar month for
// the given year, filling empty months with zero, ordered 1 through 12.
func (s *Service) MonthlyCompletedCounts(ctx context.Context, year int) ([]model.MonthlyCount, error) {
	counts, err := s.reservations.CompletedCountsByMonth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed reservations: %w", err)
	}

	series := make([]model.MonthlyCount, 0, 12)
	for month := 1; month <= 12; month++ {
		series = append(series, model.MonthlyCount{
			Month: month,
			Count: counts[month],
		})
	}
	return series, nil
}

// ReconcileHistory annotates each completed reservation with whether a
// pet of the same name currently exists in the admin registry. The match
// is by display name, not id: reservations outlive their owner-registry
// pet records, and a pet later re-added under admin management is still
// the same animal to staff.
func (s *Service) ReconcileHistory(ctx context.Context, done []*model.Reservation) ([]model.ReconciledReservation, error) {
	reconciled := make([]model.ReconciledReservation, 0, len(done))
	for _, res := range done {
		_, err := s.adminPets.GetByName(ctx, res.PetName)
		registered := err == nil
		if err != nil && !apperr.IsCode(err, apperr.ErrPetNotFound) {
			return nil, fmt.Errorf("failed to reconcile pet %q: %w", res.PetName, err)
		}
		reconciled = append(reconciled, model.ReconciledReservation{
			Reservation:     res,
			IsPetRegistered: registered,
		})
	}
	return reconciled, nil
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TodayReservations int64                `json:"today_reservations"`
	MonthlyCompleted  []model.MonthlyCount `json:"monthly_completed"`
}

func (s *Service) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	_, todayCount, err := s.reservations.List(ctx, &model.ReservationFilters{
		StartDate: today,
		EndDate:   today.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count today's reservations: %w", err)
	}

	monthly, err := s.MonthlyCompletedCounts(ctx, now.Year())
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TodayReservations: todayCount,
		MonthlyCompleted:  monthly,
	}, nil
}
