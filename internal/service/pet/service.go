package pet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
)

// Service manages the two pet registries: the owner-facing one that
// reservations are booked against, and the admin-maintained one that
// carries consultation history.
type Service struct {
	repo         repository.PetRepository
	adminRepo    repository.AdminPetRepository
	reservations repository.ReservationRepository
}

func NewService(repo repository.PetRepository, adminRepo repository.AdminPetRepository, reservations repository.ReservationRepository) *Service {
	return &Service{
		repo:         repo,
		adminRepo:    adminRepo,
		reservations: reservations,
	}
}

func (s *Service) CreatePet(ctx context.Context, pet *model.Pet) error {
	pet.ID = uuid.New()
	if err := s.repo.Create(ctx, pet); err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (s *Service) GetPet(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	pet, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// ListPetsByOwner pages through an owner's pets and flags each one that
// currently holds a pending consultation.
func (s *Service) ListPetsByOwner(ctx context.Context, ownerName string, offset, limit int) ([]*model.Pet, int64, error) {
	pets, total, err := s.repo.ListByOwner(ctx, ownerName, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pets: %w", err)
	}

	for _, p := range pets {
		pending, err := s.reservations.HasPending(ctx, p.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to check pending reservation: %w", err)
		}
		p.HasPending = pending
	}
	return pets, total, nil
}

func (s *Service) UpdateOwner(ctx context.Context, id uuid.UUID, ownerName string) error {
	if err := s.repo.UpdateOwner(ctx, id, ownerName); err != nil {
		return fmt.Errorf("failed to update pet owner: %w", err)
	}
	return nil
}

func (s *Service) DeletePet(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return nil
}

func (s *Service) CreateAdminPet(ctx context.Context, pet *model.AdminPet) error {
	pet.ID = uuid.New()
	if err := s.adminRepo.Create(ctx, pet); err != nil {
		return fmt.Errorf("failed to create admin pet: %w", err)
	}
	return nil
}

func (s *Service) GetAdminPet(ctx context.Context, id uuid.UUID) (*model.AdminPet, error) {
	pet, err := s.adminRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin pet: %w", err)
	}
	return pet, nil
}

func (s *Service) SearchAdminPets(ctx context.Context, ownerQuery string, offset, limit int) ([]*model.AdminPet, int64, error) {
	pets, total, err := s.adminRepo.Search(ctx, ownerQuery, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search admin pets: %w", err)
	}
	return pets, total, nil
}

func (s *Service) DeleteAdminPet(ctx context.Context, id uuid.UUID) error {
	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete admin pet: %w", err)
	}
	return nil
}

// AddHistory appends a dated note to an admin pet's log. The pet must exist.
func (s *Service) AddHistory(ctx context.Context, petID uuid.UUID, date time.Time, note string) (*model.HistoryEntry, error) {
	if _, err := s.adminRepo.Get(ctx, petID); err != nil {
		return nil, fmt.Errorf("failed to get admin pet: %w", err)
	}

	entry := &model.HistoryEntry{
		ID:    uuid.New(),
		PetID: petID,
		Date:  date,
		Note:  note,
	}
	if err := s.adminRepo.AddHistory(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to add history entry: %w", err)
	}
	return entry, nil
}

func (s *Service) UpdateHistory(ctx context.Context, entryID uuid.UUID, date time.Time, note string) error {
	if err := s.adminRepo.UpdateHistory(ctx, entryID, date, note); err != nil {
		return fmt.Errorf("failed to update history entry: %w", err)
	}
	return nil
}

func (s *Service) DeleteHistory(ctx context.Context, entryID uuid.UUID) error {
	if err := s.adminRepo.DeleteHistory(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (s *Service) ListHistory(ctx context.Context, petID uuid.UUID) ([]*model.HistoryEntry, error) {
	entries, err := s.adminRepo.ListHistory(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	return entries, nil
}
