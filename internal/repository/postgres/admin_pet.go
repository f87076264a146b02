package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/furwell/clinic-api/internal/model"
	"github.com/furwell/clinic-api/internal/repository"
	apperr "github.com/furwell/clinic-api/pkg/errors"
)

type adminPetRepository struct {
	BaseRepository
}

func NewAdminPetRepository(db *sqlx.DB) repository.AdminPetRepository {
	return &adminPetRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *adminPetRepository) Create(ctx context.Context, pet *model.AdminPet) error {
	query := `
		INSERT INTO admin_pets (id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		pet.ID,
		pet.PetName,
		pet.Breed,
		pet.Birthday,
		pet.OwnerName,
		pet.VetCard,
		pet.CreatedAt,
		pet.UpdatedAt,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *adminPetRepository) Get(ctx context.Context, id uuid.UUID) (*model.AdminPet, error) {
	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM admin_pets
		WHERE id = $1
	`
	var pet model.AdminPet
	err := r.db.GetContext(ctx, &pet, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperr.PetNotFound(err)
		}
		return nil, storeErr(err)
	}

	history, err := r.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, h := range history {
		pet.History = append(pet.History, *h)
	}
	return &pet, nil
}

// GetByName fetches the newest record carrying the display name. History
// views use this for name-based reconciliation.
func (r *adminPetRepository) GetByName(ctx context.Context, name string) (*model.AdminPet, error) {
	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM admin_pets
		WHERE pet_name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var pet model.AdminPet
	err := r.db.GetContext(ctx, &pet, query, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperr.PetNotFound(err)
		}
		return nil, storeErr(err)
	}
	return &pet, nil
}

// Search filters by owner-name substring, case-insensitive, matching the
// admin list view's search box.
func (r *adminPetRepository) Search(ctx context.Context, ownerQuery string, offset, limit int) ([]*model.AdminPet, int64, error) {
	pattern := "%" + ownerQuery + "%"

	var total int64
	countQuery := `SELECT COUNT(*) FROM admin_pets WHERE owner_name ILIKE $1`
	if err := r.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return nil, 0, storeErr(err)
	}

	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM admin_pets
		WHERE owner_name ILIKE $1
		ORDER BY pet_name ASC
		LIMIT $2 OFFSET $3
	`
	var pets []*model.AdminPet
	if err := r.db.SelectContext(ctx, &pets, query, pattern, limit, offset); err != nil {
		return nil, 0, storeErr(err)
	}
	return pets, total, nil
}

func (r *adminPetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM admin_pets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return apperr.PetNotFound(nil)
	}
	return nil
}

func (r *adminPetRepository) AddHistory(ctx context.Context, entry *model.HistoryEntry) error {
	query := `INSERT INTO pet_history (id, pet_id, entry_date, note) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.PetID, entry.Date, entry.Note)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *adminPetRepository) UpdateHistory(ctx context.Context, entryID uuid.UUID, date time.Time, note string) error {
	query := `UPDATE pet_history SET entry_date = $1, note = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, date, note, entryID)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return apperr.NotFound("history entry", nil)
	}
	return nil
}

func (r *adminPetRepository) DeleteHistory(ctx context.Context, entryID uuid.UUID) error {
	query := `DELETE FROM pet_history WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, entryID)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		return apperr.NotFound("history entry", nil)
	}
	return nil
}

func (r *adminPetRepository) ListHistory(ctx context.Context, petID uuid.UUID) ([]*model.HistoryEntry, error) {
	query := `
		SELECT id, pet_id, entry_date, note
		FROM pet_history
		WHERE pet_id = $1
		ORDER BY entry_date DESC
	`
	var entries []*model.HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, petID); err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}
