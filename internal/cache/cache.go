// Package cache keeps the resolved Ramadan timetable in the persisted state
// store, keyed by rounded coordinate with a 12-hour TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/store"
)

// TTL is how long a cached timetable stays valid.
const TTL = 12 * time.Hour

// Cache stores one Ramadan timetable per rounded coordinate key.
type Cache struct {
	store store.Store

	// now is injected for deterministic TTL tests. Defaults to time.Now.
	now func() time.Time
}

// New creates a Cache backed by the given store.
func New(s store.Store) *Cache {
	return &Cache{store: s, now: time.Now}
}

// NewWithClock creates a Cache with an explicit clock.
func NewWithClock(s store.Store, now func() time.Time) *Cache {
	return &Cache{store: s, now: now}
}

// Key rounds the coordinate to two decimal places. fmt always uses "." as
// the decimal separator, so keys cannot drift across locales.
func Key(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// Load returns the cached timetable for the coordinate, or nil when there is
// no entry, the stored key rounds differently, or the entry is older than
// the TTL. Stale entries are left in place; the next Save supersedes them.
func (c *Cache) Load(lat, lon float64) []prayer.DayPrayerTimes {
	key, ok, err := c.store.Get(store.KeyRamadanCacheKey)
	if err != nil || !ok || key != Key(lat, lon) {
		return nil
	}

	raw, ok, err := c.store.Get(store.KeyRamadanCacheTime)
	if err != nil || !ok {
		return nil
	}
	createdAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	if c.now().Sub(time.Unix(createdAt, 0)) > TTL {
		return nil
	}

	payload, ok, err := c.store.Get(store.KeyRamadanCacheData)
	if err != nil || !ok {
		return nil
	}

	var days []prayer.DayPrayerTimes
	if err := json.Unmarshal([]byte(payload), &days); err != nil {
		return nil
	}
	return days
}

// Save overwrites the cached timetable for the coordinate. Callers must not
// pass an empty payload; an empty resolution is an error state, not a result
// worth pinning for 12 hours.
func (c *Cache) Save(lat, lon float64, days []prayer.DayPrayerTimes) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("marshaling timetable: %w", err)
	}

	if err := c.store.Set(store.KeyRamadanCacheKey, Key(lat, lon)); err != nil {
		return err
	}
	if err := c.store.Set(store.KeyRamadanCacheTime, strconv.FormatInt(c.now().Unix(), 10)); err != nil {
		return err
	}
	return c.store.Set(store.KeyRamadanCacheData, string(payload))
}
