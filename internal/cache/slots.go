package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clinicops/clinic-backoffice/internal/domain/schedule"
)

const slotTTL = 2 * time.Minute

// SlotCache is an optional Redis-backed cache for computed availability.
// A nil *SlotCache is valid and behaves as a permanent miss, so callers
// never need to branch on whether caching is configured. Entries are
// short-lived and invalidated on every write that can change a staff
// member's availability.
type SlotCache struct {
	rdb *redis.Client
}

func NewSlotCache(redisURL string) (*SlotCache, error) {
	if redisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &SlotCache{rdb: redis.NewClient(opt)}, nil
}

func Key(userID uint, date string, appointmentTypeID uint, tz string) string {
	return fmt.Sprintf("slots:%d:%s:%d:%s", userID, date, appointmentTypeID, tz)
}

func (c *SlotCache) Get(ctx context.Context, key string) ([]schedule.Slot, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []schedule.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}

	return slots, true
}

func (c *SlotCache) Store(ctx context.Context, key string, slots []schedule.Slot) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key, raw, slotTTL).Err(); err != nil {
		log.Println("slot cache: set failed:", err)
	}
}

// InvalidateUser drops every cached slot list for a staff member. Called
// after rule replacement and after any appointment write.
func (c *SlotCache) InvalidateUser(ctx context.Context, userID uint) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("slots:%d:*", userID)

	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Println("slot cache: del failed:", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Println("slot cache: scan failed:", err)
	}
}
