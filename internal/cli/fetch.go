package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/config"
	"github.com/noorapp/noor/internal/geo"
	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/store"
)

// openStore opens the bolt state store, degrading to an in-memory store when
// the database cannot be opened (another process may hold the lock).
func openStore(cfg *config.Config) store.Store {
	s, err := store.OpenBolt(cfg.DataDir)
	if err != nil {
		log.Warn().Err(err).Msg("state store unavailable; falling back to memory")
		return store.NewMemStore()
	}
	return s
}

// resolveCoordinate determines the effective coordinate.
// Priority: CLI flags / config > last stored location > IP auto-detect.
// A freshly detected location is persisted for the next run and the widget.
func resolveCoordinate(ctx context.Context, cfg *config.Config, s store.Store) (float64, float64, error) {
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		return cfg.Latitude, cfg.Longitude, nil
	}

	if lat, lon, ok := storedCoordinate(s); ok {
		return lat, lon, nil
	}

	detected, err := geo.Detect(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("no location configured and auto-detection failed: %w", err)
	}
	log.Debug().
		Float64("lat", detected.Latitude).
		Float64("lon", detected.Longitude).
		Str("city", detected.City).
		Msg("location auto-detected")

	// Best-effort persistence.
	_ = s.Set(store.KeyLastLat, strconv.FormatFloat(detected.Latitude, 'f', -1, 64))
	_ = s.Set(store.KeyLastLon, strconv.FormatFloat(detected.Longitude, 'f', -1, 64))

	return detected.Latitude, detected.Longitude, nil
}

func storedCoordinate(s store.Store) (float64, float64, bool) {
	rawLat, okLat, _ := s.Get(store.KeyLastLat)
	rawLon, okLon, _ := s.Get(store.KeyLastLon)
	if !okLat || !okLon {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lon, errLon := strconv.ParseFloat(rawLon, 64)
	if errLat != nil || errLon != nil || (lat == 0 && lon == 0) {
		return 0, 0, false
	}
	return lat, lon, true
}

// fetchDaily fetches today's and tomorrow's timings concurrently and joins
// them into the ten-entry daily timetable. These two requests have no
// ordering dependency, unlike the Ramadan scan.
func fetchDaily(ctx context.Context, client *api.Client, lat, lon float64, now time.Time) ([]prayer.PrayerTime, error) {
	var today, tomorrow *api.Day

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		day, err := client.FetchDayTimings(gctx, now, lat, lon)
		if err != nil {
			return fmt.Errorf("fetching today's timings: %w", err)
		}
		today = day
		return nil
	})
	g.Go(func() error {
		day, err := client.FetchDayTimings(gctx, now.AddDate(0, 0, 1), lat, lon)
		if err != nil {
			return fmt.Errorf("fetching tomorrow's timings: %w", err)
		}
		tomorrow = day
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return prayer.BuildDaily(today.Timings, tomorrow.Timings), nil
}
