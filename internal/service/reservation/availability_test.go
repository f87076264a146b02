package reservation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furwell/clinic-api/internal/model"
)

func TestCheckCapacity(t *testing.T) {
	ctx := context.Background()
	svc, _, pets, _ := newTestService(t)
	date := day("2026-09-14")

	avail, err := svc.CheckCapacity(ctx, date, "10:30")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 0, avail.CurrentCount)

	for i := 0; i < model.MaxSlotCapacity; i++ {
		pet := registerPet(t, pets, fmt.Sprintf("Pet%d", i), "Owner")
		_, err := svc.CreateReservation(ctx, pet.ID, date, "10:30", "checkup")
		require.NoError(t, err)
	}

	avail, err = svc.CheckCapacity(ctx, date, "10:30")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, model.MaxSlotCapacity, avail.CurrentCount)
}

func TestCheckCapacityCountsDoneReservations(t *testing.T) {
	ctx := context.Background()
	svc, _, pets, _ := newTestService(t)
	date := day("2026-09-14")

	pet := registerPet(t, pets, "Rex", "Owner")
	res, err := svc.CreateReservation(ctx, pet.ID, date, "10:30", "checkup")
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, res.ID)
	require.NoError(t, err)

	avail, err := svc.CheckCapacity(ctx, date, "10:30")
	require.NoError(t, err)
	assert.Equal(t, 1, avail.CurrentCount)
}

func TestListFullSlots(t *testing.T) {
	ctx := context.Background()
	svc, _, pets, _ := newTestService(t)
	date := day("2026-09-14")

	full, err := svc.ListFullSlots(ctx, date)
	require.NoError(t, err)
	assert.Empty(t, full)

	svc.slots.Invalidate(date)
	for i := 0; i < model.MaxSlotCapacity; i++ {
		pet := registerPet(t, pets, fmt.Sprintf("Pet%d", i), "Owner")
		_, err := svc.CreateReservation(ctx, pet.ID, date, "11:00", "checkup")
		require.NoError(t, err)
	}

	full, err = svc.ListFullSlots(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00"}, full)
}

func TestListFullSlotsCacheInvalidatedOnCreate(t *testing.T) {
	ctx := context.Background()
	svc, _, pets, _ := newTestService(t)
	date := day("2026-09-14")

	// Warm the cache with an empty result.
	_, err := svc.ListFullSlots(ctx, date)
	require.NoError(t, err)

	for i := 0; i < model.MaxSlotCapacity; i++ {
		pet := registerPet(t, pets, fmt.Sprintf("Pet%d", i), "Owner")
		_, err := svc.CreateReservation(ctx, pet.ID, date, "12:00", "checkup")
		require.NoError(t, err)
	}

	// Each create invalidates the date's entry, so the refreshed
	// result is visible immediately.
	full, err := svc.ListFullSlots(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00"}, full)
}
