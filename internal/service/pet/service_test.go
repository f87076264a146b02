package pet

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furwell/clinic-api/internal/model"
	apperr "github.com/furwell/clinic-api/pkg/errors"
)

type fakePetRepo struct {
	byID map[uuid.UUID]*model.Pet
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{byID: make(map[uuid.UUID]*model.Pet)}
}

func (r *fakePetRepo) Create(_ context.Context, pet *model.Pet) error {
	cp := *pet
	r.byID[pet.ID] = &cp
	return nil
}

func (r *fakePetRepo) Get(_ context.Context, id uuid.UUID) (*model.Pet, error) {
	pet, ok := r.byID[id]
	if !ok {
		return nil, apperr.PetNotFound(sql.ErrNoRows)
	}
	cp := *pet
	return &cp, nil
}

func (r *fakePetRepo) GetByName(_ context.Context, name string) (*model.Pet, error) {
	for _, pet := range r.byID {
		if pet.PetName == name {
			cp := *pet
			return &cp, nil
		}
	}
	return nil, apperr.PetNotFound(sql.ErrNoRows)
}

func (r *fakePetRepo) ListByOwner(_ context.Context, ownerName string, offset, limit int) ([]*model.Pet, int64, error) {
	matched := make([]*model.Pet, 0)
	for _, pet := range r.byID {
		if pet.OwnerName == ownerName {
			cp := *pet
			matched = append(matched, &cp)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakePetRepo) UpdateOwner(_ context.Context, id uuid.UUID, ownerName string) error {
	pet, ok := r.byID[id]
	if !ok {
		return apperr.PetNotFound(sql.ErrNoRows)
	}
	pet.OwnerName = ownerName
	return nil
}

func (r *fakePetRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.PetNotFound(sql.ErrNoRows)
	}
	delete(r.byID, id)
	return nil
}

type fakeAdminPetRepo struct {
	byID    map[uuid.UUID]*model.AdminPet
	history map[uuid.UUID]*model.HistoryEntry
}

func newFakeAdminPetRepo() *fakeAdminPetRepo {
	return &fakeAdminPetRepo{
		byID:    make(map[uuid.UUID]*model.AdminPet),
		history: make(map[uuid.UUID]*model.HistoryEntry),
	}
}

func (r *fakeAdminPetRepo) Create(_ context.Context, pet *model.AdminPet) error {
	cp := *pet
	r.byID[pet.ID] = &cp
	return nil
}

func (r *fakeAdminPetRepo) Get(_ context.Context, id uuid.UUID) (*model.AdminPet, error) {
	pet, ok := r.byID[id]
	if !ok {
		return nil, apperr.PetNotFound(sql.ErrNoRows)
	}
	cp := *pet
	return &cp, nil
}

func (r *fakeAdminPetRepo) GetByName(_ context.Context, name string) (*model.AdminPet, error) {
	for _, pet := range r.byID {
		if pet.PetName == name {
			cp := *pet
			return &cp, nil
		}
	}
	return nil, apperr.PetNotFound(sql.ErrNoRows)
}

func (r *fakeAdminPetRepo) Search(_ context.Context, ownerQuery string, _, _ int) ([]*model.AdminPet, int64, error) {
	matched := make([]*model.AdminPet, 0)
	for _, pet := range r.byID {
		if ownerQuery == "" || pet.OwnerName == ownerQuery {
			cp := *pet
			matched = append(matched, &cp)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeAdminPetRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.PetNotFound(sql.ErrNoRows)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeAdminPetRepo) AddHistory(_ context.Context, entry *model.HistoryEntry) error {
	cp := *entry
	r.history[entry.ID] = &cp
	return nil
}

func (r *fakeAdminPetRepo) UpdateHistory(_ context.Context, entryID uuid.UUID, date time.Time, note string) error {
	entry, ok := r.history[entryID]
	if !ok {
		return apperr.NotFound("history entry", sql.ErrNoRows)
	}
	entry.Date = date
	entry.Note = note
	return nil
}

func (r *fakeAdminPetRepo) DeleteHistory(_ context.Context, entryID uuid.UUID) error {
	if _, ok := r.history[entryID]; !ok {
		return apperr.NotFound("history entry", sql.ErrNoRows)
	}
	delete(r.history, entryID)
	return nil
}

func (r *fakeAdminPetRepo) ListHistory(_ context.Context, petID uuid.UUID) ([]*model.HistoryEntry, error) {
	entries := make([]*model.HistoryEntry, 0)
	for _, entry := range r.history {
		if entry.PetID == petID {
			cp := *entry
			entries = append(entries, &cp)
		}
	}
	return entries, nil
}

type pendingChecker struct {
	pending map[uuid.UUID]bool
}

func (c *pendingChecker) Create(context.Context, *model.Reservation, int) error { return nil }
func (c *pendingChecker) Get(context.Context, uuid.UUID) (*model.Reservation, error) {
	return nil, apperr.NotFound("reservation", sql.ErrNoRows)
}
func (c *pendingChecker) MarkDone(context.Context, uuid.UUID) error { return nil }
func (c *pendingChecker) Delete(context.Context, uuid.UUID) error   { return nil }
func (c *pendingChecker) List(context.Context, *model.ReservationFilters) ([]*model.Reservation, int64, error) {
	return nil, 0, nil
}
func (c *pendingChecker) CountBySlot(context.Context, time.Time, string) (int, error) {
	return 0, nil
}
func (c *pendingChecker) SlotCounts(context.Context, time.Time) (map[string]int, error) {
	return nil, nil
}
func (c *pendingChecker) HasPending(_ context.Context, petID uuid.UUID) (bool, error) {
	return c.pending[petID], nil
}
func (c *pendingChecker) DeletePendingBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (c *pendingChecker) CompletedCountsByMonth(context.Context, int) (map[int]int, error) {
	return nil, nil
}

func newTestService() (*Service, *fakePetRepo, *fakeAdminPetRepo, *pendingChecker) {
	repo := newFakePetRepo()
	adminRepo := newFakeAdminPetRepo()
	reservations := &pendingChecker{pending: make(map[uuid.UUID]bool)}
	return NewService(repo, adminRepo, reservations), repo, adminRepo, reservations
}

func TestCreateAndGetPet(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	pet := &model.Pet{PetName: "Rex", Breed: "corgi", OwnerName: "Ola Nordmann"}
	require.NoError(t, svc.CreatePet(ctx, pet))
	require.NotEqual(t, uuid.Nil, pet.ID)

	got, err := svc.GetPet(ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.PetName)
}

func TestListPetsByOwnerFlagsPending(t *testing.T) {
	ctx := context.Background()
	svc, _, _, reservations := newTestService()

	booked := &model.Pet{PetName: "Rex", Breed: "corgi", OwnerName: "Ola Nordmann"}
	free := &model.Pet{PetName: "Milo", Breed: "beagle", OwnerName: "Ola Nordmann"}
	require.NoError(t, svc.CreatePet(ctx, booked))
	require.NoError(t, svc.CreatePet(ctx, free))

	reservations.pending[booked.ID] = true

	pets, total, err := svc.ListPetsByOwner(ctx, "Ola Nordmann", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	flags := map[string]bool{}
	for _, p := range pets {
		flags[p.PetName] = p.HasPending
	}
	assert.True(t, flags["Rex"])
	assert.False(t, flags["Milo"])
}

func TestUpdateOwnerUnknownPet(t *testing.T) {
	svc, _, _, _ := newTestService()

	err := svc.UpdateOwner(context.Background(), uuid.New(), "New Owner")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.ErrPetNotFound))
}

func TestAdminPetHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	adminPet := &model.AdminPet{PetName: "Luna", Breed: "husky", OwnerName: "Kari Nordmann"}
	require.NoError(t, svc.CreateAdminPet(ctx, adminPet))

	date := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.Local)
	entry, err := svc.AddHistory(ctx, adminPet.ID, date, "vaccination")
	require.NoError(t, err)

	entries, err := svc.ListHistory(ctx, adminPet.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vaccination", entries[0].Note)

	require.NoError(t, svc.UpdateHistory(ctx, entry.ID, date, "vaccination + checkup"))
	entries, err = svc.ListHistory(ctx, adminPet.ID)
	require.NoError(t, err)
	assert.Equal(t, "vaccination + checkup", entries[0].Note)

	require.NoError(t, svc.DeleteHistory(ctx, entry.ID))
	entries, err = svc.ListHistory(ctx, adminPet.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddHistoryUnknownPet(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddHistory(context.Background(), uuid.New(), time.Now(), "note")
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.ErrPetNotFound))
}

func TestRegistriesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService()

	pet := &model.Pet{PetName: "Rex", Breed: "corgi", OwnerName: "Ola Nordmann"}
	require.NoError(t, svc.CreatePet(ctx, pet))

	// An owner-registered pet is not visible through the admin registry.
	_, err := svc.GetAdminPet(ctx, pet.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.ErrPetNotFound))
}
