package model

import (
	"time"

	"github.com/google/uuid"
)

// Pet is an owner-registered pet. Admin-managed pets live in a separate
// registry (AdminPet); the two stores are disjoint.
type Pet struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PetName    string     `db:"pet_name" json:"pet_name"`
	Breed      string     `db:"breed" json:"breed"`
	Birthday   *time.Time `db:"birthday" json:"birthday,omitempty"`
	OwnerName  string     `db:"owner_name" json:"owner_name"`
	VetCard    *string    `db:"vet_card" json:"vet_card,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	HasPending bool       `db:"-" json:"has_pending_reservation"`
}

// AdminPet is a pet record in the admin-maintained registry, carrying a
// dated history log of consultation notes.
type AdminPet struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	PetName   string         `db:"pet_name" json:"pet_name"`
	Breed     string         `db:"breed" json:"breed"`
	Birthday  *time.Time     `db:"birthday" json:"birthday,omitempty"`
	OwnerName string         `db:"owner_name" json:"owner_name"`
	VetCard   *string        `db:"vet_card" json:"vet_card,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
	History   []HistoryEntry `db:"-" json:"history,omitempty"`
}

type HistoryEntry struct {
	ID    uuid.UUID `db:"id" json:"id"`
	PetID uuid.UUID `db:"pet_id" json:"pet_id"`
	Date  time.Time `db:"entry_date" json:"date"`
	Note  string    `db:"note" json:"note"`
}

type CreatePetRequest struct {
	PetName   string `json:"pet_name" binding:"required"`
	Breed     string `json:"breed" binding:"required"`
	Birthday  string `json:"birthday"`
	OwnerName string `json:"owner_name" binding:"required"`
	VetCard   string `json:"vet_card"`
}

type UpdatePetRequest struct {
	OwnerName string `json:"owner_name" binding:"required"`
}

type HistoryEntryRequest struct {
	Date string `json:"date" binding:"required"`
	Note string `json:"note" binding:"required"`
}
