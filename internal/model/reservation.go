package model

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending ReservationStatus = "pending"
	ReservationStatusDone    ReservationStatus = "done"
)

// MaxSlotCapacity is the number of reservations a single (date, slot)
// pair can hold, counted across all pets regardless of status.
const MaxSlotCapacity = 5

// Reservation snapshots the pet's fields at booking time so the history
// stays intact when the pet record is later edited or removed.
type Reservation struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PetID     uuid.UUID         `db:"pet_id" json:"pet_id"`
	PetName   string            `db:"pet_name" json:"pet_name"`
	Breed     string            `db:"breed" json:"breed"`
	OwnerName string            `db:"owner_name" json:"owner_name"`
	Date      time.Time         `db:"reserved_date" json:"date"`
	TimeSlot  string            `db:"time_slot" json:"time_slot"`
	Note      string            `db:"note" json:"note"`
	VetCard   *string           `db:"vet_card" json:"vet_card,omitempty"`
	Status    ReservationStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

type CreateReservationRequest struct {
	PetID    uuid.UUID `json:"pet_id" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	TimeSlot string    `json:"time_slot" binding:"required,timeslot"`
	Note     string    `json:"note" binding:"required,max=1000"`
}

type ReservationFilters struct {
	PetID     uuid.UUID
	OwnerName string
	Status    ReservationStatus
	StartDate time.Time
	EndDate   time.Time
	// NewestFirst flips the listing to descending date order; history
	// views want the most recent visit on top.
	NewestFirst bool
	Offset      int
	Limit       int
}

// SlotAvailability reports remaining capacity for a (date, slot) pair.
type SlotAvailability struct {
	Date         time.Time `json:"date"`
	TimeSlot     string    `json:"time_slot"`
	Available    bool      `json:"available"`
	CurrentCount int       `json:"current_count"`
}

// MonthlyCount is one entry of the completed-reservations-per-month series.
type MonthlyCount struct {
	Month int `db:"month" json:"month"`
	Count int `db:"count" json:"count"`
}

// ReconciledReservation annotates a completed reservation with whether a
// pet of the same name is currently present in the registry.
type ReconciledReservation struct {
	Reservation     *Reservation `json:"reservation"`
	IsPetRegistered bool         `json:"is_pet_registered"`
}
