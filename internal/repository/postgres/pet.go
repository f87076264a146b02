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

type petRepository struct {
	BaseRepository
}

func NewPetRepository(db *sqlx.DB) repository.PetRepository {
	return &petRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *petRepository) Create(ctx context.Context, pet *model.Pet) error {
	query := `
		INSERT INTO pets (id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at)
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

func (r *petRepository) Get(ctx context.Context, id uuid.UUID) (*model.Pet, error) {
	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM pets
		WHERE id = $1
	`
	var pet model.Pet
	err := r.db.GetContext(ctx, &pet, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperr.PetNotFound(err)
		}
		return nil, storeErr(err)
	}
	return &pet, nil
}

func (r *petRepository) GetByName(ctx context.Context, name string) (*model.Pet, error) {
	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM pets
		WHERE pet_name = $1
		LIMIT 1
	`
	var pet model.Pet
	err := r.db.GetContext(ctx, &pet, query, name)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperr.PetNotFound(err)
		}
		return nil, storeErr(err)
	}
	return &pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerName string, offset, limit int) ([]*model.Pet, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM pets WHERE owner_name = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ownerName); err != nil {
		return nil, 0, storeErr(err)
	}

	query := `
		SELECT id, pet_name, breed, birthday, owner_name, vet_card, created_at, updated_at
		FROM pets
		WHERE owner_name = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	var pets []*model.Pet
	if err := r.db.SelectContext(ctx, &pets, query, ownerName, limit, offset); err != nil {
		return nil, 0, storeErr(err)
	}
	return pets, total, nil
}

func (r *petRepository) UpdateOwner(ctx context.Context, id uuid.UUID, ownerName string) error {
	query := `UPDATE pets SET owner_name = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, ownerName, time.Now(), id)
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

func (r *petRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM pets WHERE id = $1`
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
