// Package ramadan resolves the Gregorian date range of the current or next
// upcoming Ramadan for a coordinate, producing the per-day Sehri/Iftar
// timetable.
package ramadan

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/prayer"
)

// RamadanMonth is the Hijri month number of Ramadan.
const RamadanMonth = 9

// DefaultHorizon bounds the forward scan. A lunar month never exceeds 30
// days and Ramadan can begin at most ~60 days out from any point in the
// lunar cycle, so 90 days always covers start plus full month.
const DefaultHorizon = 90

// ErrNoData means the scan horizon was exhausted without collecting a single
// Ramadan day, or every fetch failed.
var ErrNoData = errors.New("no Ramadan data found within scan horizon")

// DayFetcher is the slice of the API client the resolver needs.
type DayFetcher interface {
	FetchDayTimings(ctx context.Context, date time.Time, lat, lon float64) (*api.Day, error)
}

// Resolver walks the calendar day by day and accumulates the Ramadan window.
// Concurrent resolutions for the same rounded coordinate are coalesced into
// a single scan.
type Resolver struct {
	fetcher DayFetcher
	log     zerolog.Logger

	// Horizon is the maximum number of days scanned. Defaults to
	// DefaultHorizon; tests shrink it.
	Horizon int

	group singleflight.Group
}

// NewResolver creates a Resolver with the default scan horizon.
func NewResolver(fetcher DayFetcher, log zerolog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		log:     log,
		Horizon: DefaultHorizon,
	}
}

// Resolve returns the ordered Ramadan timetable for the coordinate, starting
// at today (never earlier). When Ramadan is already in progress the first
// entry carries today's Hijri day label, not "1".
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64, today time.Time) ([]prayer.DayPrayerTimes, error) {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.scan(ctx, lat, lon, today)
	})
	if err != nil {
		return nil, err
	}
	return v.([]prayer.DayPrayerTimes), nil
}

// scan is the sequential day-scan. Each step's stop decision depends on the
// previous day's classification, so the fetches cannot run in parallel.
func (r *Resolver) scan(ctx context.Context, lat, lon float64, today time.Time) ([]prayer.DayPrayerTimes, error) {
	var days []prayer.DayPrayerTimes
	collecting := false

	for offset := 0; offset < r.Horizon; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		date := today.AddDate(0, 0, offset)

		day, err := r.fetcher.FetchDayTimings(ctx, date, lat, lon)
		if err != nil {
			// A failed day leaves a gap rather than aborting the window.
			r.log.Warn().
				Str("date", date.Format("2006-01-02")).
				Err(err).
				Msg("skipping day: fetch failed")
			continue
		}

		if day.Date.Hijri.Month.Number != RamadanMonth {
			if collecting {
				// The month ended; this day is not part of the window.
				break
			}
			continue
		}

		collecting = true

		hijriDay, ok := day.Date.Hijri.Day.Int()
		if !ok {
			r.log.Warn().
				Str("date", date.Format("2006-01-02")).
				Msg("skipping day: unparseable Hijri day")
			continue
		}

		days = append(days, prayer.DayPrayerTimes{
			DayLabel:  strconv.Itoa(hijriDay),
			DateLabel: shortDateLabel(day.Date.Readable, date),
			Sehri:     prayer.TimeToken(day.Timings.Fajr),
			Iftar:     prayer.TimeToken(day.Timings.Maghrib),
		})
	}

	if len(days) == 0 {
		return nil, ErrNoData
	}
	return days, nil
}

// shortDateLabel builds the "15 Mar" style label from the API's readable
// date, falling back to formatting the Gregorian date directly.
func shortDateLabel(readable string, date time.Time) string {
	fields := strings.Fields(readable)
	if len(fields) >= 2 {
		return fields[0] + " " + fields[1]
	}
	return date.Format("02 Jan")
}
