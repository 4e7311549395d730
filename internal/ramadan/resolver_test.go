package ramadan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/noorapp/noor/internal/api"
)

// fakeCalendar serves synthetic days keyed by Gregorian date and records
// which dates were fetched.
type fakeCalendar struct {
	days    map[string]*api.Day
	errs    map[string]error
	fetched []string
}

func (f *fakeCalendar) FetchDayTimings(ctx context.Context, date time.Time, lat, lon float64) (*api.Day, error) {
	key := date.Format("2006-01-02")
	f.fetched = append(f.fetched, key)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if d, ok := f.days[key]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no fixture for %s", key)
}

func hijriDay(month, day int, fajr, maghrib string) *api.Day {
	var d api.Day
	d.Timings.Fajr = fajr
	d.Timings.Maghrib = maghrib
	d.Date.Hijri.Month = api.HijriMonth{Number: month}
	d.Date.Hijri.Day = api.FlexInt{Value: day, Valid: true}
	return &d
}

// buildFeed lays out Sha'ban days, then a full month 9, then Shawwal, as
// offsets from the start date.
func buildFeed(start time.Time, leadDays, ramadanDays int) *fakeCalendar {
	f := &fakeCalendar{days: map[string]*api.Day{}}
	offset := 0
	for i := 0; i < leadDays; i++ {
		date := start.AddDate(0, 0, offset)
		f.days[date.Format("2006-01-02")] = hijriDay(8, 20+i, "05:00", "18:00")
		offset++
	}
	for i := 1; i <= ramadanDays; i++ {
		date := start.AddDate(0, 0, offset)
		f.days[date.Format("2006-01-02")] = hijriDay(9, i, "05:00 (EET)", "18:00 (EET)")
		offset++
	}
	for i := 1; i <= 5; i++ {
		date := start.AddDate(0, 0, offset)
		f.days[date.Format("2006-01-02")] = hijriDay(10, i, "05:00", "18:00")
		offset++
	}
	return f
}

func newTestResolver(f *fakeCalendar) *Resolver {
	return NewResolver(f, zerolog.Nop())
}

func TestResolve_FullMonthAheadOfStart(t *testing.T) {
	start := time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
	feed := buildFeed(start, 10, 29)
	r := newTestResolver(feed)

	days, err := r.Resolve(context.Background(), 21.42, 39.83, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 29 {
		t.Fatalf("got %d entries, want 29", len(days))
	}
	for i, d := range days {
		want := fmt.Sprintf("%d", i+1)
		if d.DayLabel != want {
			t.Errorf("entry[%d].DayLabel = %q, want %q", i, d.DayLabel, want)
		}
	}
	if days[0].Sehri != "05:00" || days[0].Iftar != "18:00" {
		t.Errorf("times = %q/%q, want suffix-stripped 05:00/18:00", days[0].Sehri, days[0].Iftar)
	}

	// The scan stops at the first day after the month ends: 10 lead days,
	// 29 Ramadan days, plus the one Shawwal day that signals the end.
	if got := len(feed.fetched); got != 40 {
		t.Errorf("fetched %d days, want 40", got)
	}
}

func TestResolve_InProgressStartsAtToday(t *testing.T) {
	// Today is already Ramadan day 5.
	start := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	f := &fakeCalendar{days: map[string]*api.Day{}}
	for i := 0; i < 26; i++ {
		date := start.AddDate(0, 0, i)
		if i < 25 {
			f.days[date.Format("2006-01-02")] = hijriDay(9, 5+i, "05:00", "18:00")
		} else {
			f.days[date.Format("2006-01-02")] = hijriDay(10, 1, "05:00", "18:00")
		}
	}
	r := newTestResolver(f)

	days, err := r.Resolve(context.Background(), 21.42, 39.83, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 25 {
		t.Fatalf("got %d entries, want 25", len(days))
	}
	if days[0].DayLabel != "5" {
		t.Errorf("first DayLabel = %q, want %q", days[0].DayLabel, "5")
	}
	if days[24].DayLabel != "29" {
		t.Errorf("last DayLabel = %q, want %q", days[24].DayLabel, "29")
	}
}

func TestResolve_FailedDayLeavesGap(t *testing.T) {
	start := time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
	feed := buildFeed(start, 3, 30)
	// Ramadan day 12 sits at offset 3+11.
	failDate := start.AddDate(0, 0, 14).Format("2006-01-02")
	feed.errs = map[string]error{failDate: errors.New("boom")}
	r := newTestResolver(feed)

	days, err := r.Resolve(context.Background(), 21.42, 39.83, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 29 {
		t.Fatalf("got %d entries, want 29 (one gap)", len(days))
	}
	for _, d := range days {
		if d.DayLabel == "12" {
			t.Error("day 12 should be missing")
		}
	}
	// The window still runs to its real end.
	if days[len(days)-1].DayLabel != "30" {
		t.Errorf("last DayLabel = %q, want %q", days[len(days)-1].DayLabel, "30")
	}
}

func TestResolve_CorruptHijriDaySkipped(t *testing.T) {
	start := time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
	feed := buildFeed(start, 2, 29)
	// Corrupt the Hijri day on Ramadan day 7 (offset 2+6).
	corrupt := feed.days[start.AddDate(0, 0, 8).Format("2006-01-02")]
	corrupt.Date.Hijri.Day = api.FlexInt{}
	r := newTestResolver(feed)

	days, err := r.Resolve(context.Background(), 21.42, 39.83, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(days) != 28 {
		t.Fatalf("got %d entries, want 28", len(days))
	}
	for _, d := range days {
		if d.DayLabel == "7" {
			t.Error("corrupt day 7 should be skipped")
		}
	}
}

func TestResolve_HorizonExhausted(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := &fakeCalendar{days: map[string]*api.Day{}}
	for i := 0; i < DefaultHorizon; i++ {
		date := start.AddDate(0, 0, i)
		f.days[date.Format("2006-01-02")] = hijriDay(11, 1+i%30, "05:00", "18:00")
	}
	r := newTestResolver(f)
	r.Horizon = 20

	_, err := r.Resolve(context.Background(), 21.42, 39.83, start)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
}

func TestResolve_AllFetchesFail(t *testing.T) {
	f := &fakeCalendar{days: map[string]*api.Day{}}
	r := newTestResolver(f)
	r.Horizon = 10

	_, err := r.Resolve(context.Background(), 0, 0, time.Now())
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
}

func TestResolve_ContextCancel(t *testing.T) {
	start := time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
	feed := buildFeed(start, 10, 29)
	r := newTestResolver(feed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Resolve(ctx, 21.42, 39.83, start); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestShortDateLabel(t *testing.T) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	if got := shortDateLabel("15 Mar 2025", date); got != "15 Mar" {
		t.Errorf("got %q, want %q", got, "15 Mar")
	}
	if got := shortDateLabel("", date); got != "15 Mar" {
		t.Errorf("fallback: got %q, want %q", got, "15 Mar")
	}
	if got := shortDateLabel("garbled", date); got != "15 Mar" {
		t.Errorf("single token falls back: got %q, want %q", got, "15 Mar")
	}
}
