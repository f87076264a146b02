package reservation

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/furwell/clinic-api/internal/model"
)

const (
	fullSlotsCacheTTL     = 30 * time.Second
	fullSlotsCacheCleanup = 5 * time.Minute
)

// slotCache memoizes full-slot lookups for the booking form. The creation
// path always goes through the store's atomic insert, so a stale cache
// entry can only over- or under-show availability in the UI, never let an
// over-capacity booking through.
type slotCache struct {
	inner *gocache.Cache
}

func newSlotCache() *slotCache {
	return &slotCache{inner: gocache.New(fullSlotsCacheTTL, fullSlotsCacheCleanup)}
}

func (c *slotCache) key(date time.Time) string {
	return date.Format("2006-01-02")
}

func (c *slotCache) Get(date time.Time) ([]string, bool) {
	if v, ok := c.inner.Get(c.key(date)); ok {
		return v.([]string), true
	}
	return nil, false
}

func (c *slotCache) Set(date time.Time, slots []string) {
	c.inner.SetDefault(c.key(date), slots)
}

func (c *slotCache) Invalidate(date time.Time) {
	c.inner.Delete(c.key(date))
}

// CheckCapacity reports whether a (date, slot) pair still has room. All
// reservations on the pair count toward capacity, pending and done alike.
// This is a read-only probe; it does not reserve anything.
func (s *Service) CheckCapacity(ctx context.Context, date time.Time, slot string) (*model.SlotAvailability, error) {
	day := atMidnight(date)
	count, err := s.repo.CountBySlot(ctx, day, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to count slot reservations: %w", err)
	}

	return &model.SlotAvailability{
		Date:         day,
		TimeSlot:     slot,
		Available:    count < model.MaxSlotCapacity,
		CurrentCount: count,
	}, nil
}

// ListFullSlots returns every slot on the date at or above capacity,
// sorted, for greying out options in the booking form.
func (s *Service) ListFullSlots(ctx context.Context, date time.Time) ([]string, error) {
	day := atMidnight(date)
	if cached, ok := s.slots.Get(day); ok {
		return cached, nil
	}

	counts, err := s.repo.SlotCounts(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to group slot reservations: %w", err)
	}

	full := make([]string, 0)
	for slot, count := range counts {
		if count >= model.MaxSlotCapacity {
			full = append(full, slot)
		}
	}
	sort.Strings(full)

	s.slots.Set(day, full)
	return full, nil
}
