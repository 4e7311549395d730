// Package schedule derives the next-event summary from the daily timetable,
// persists it for the widget, and requests the Sehri/Iftar notifications.
package schedule

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/store"
)

// Stable notification identifiers. Re-scheduling with the same id replaces
// the earlier request instead of stacking duplicates.
const (
	SehriNotificationID = 1001
	IftarNotificationID = 1002
)

// Notifier schedules a notification at an absolute wall-clock instant,
// guaranteeing delivery at-or-after it. A second call with the same id
// replaces the first.
type Notifier interface {
	Schedule(at time.Time, title, message string, id int) error
}

// ErrNoUpcomingEvent means the timetable has no future Sehri or Iftar entry
// to summarize, which only happens with an empty or malformed list.
var ErrNoUpcomingEvent = errors.New("timetable has no upcoming main event")

// Summary is the persisted widget state derived from a daily timetable.
type Summary struct {
	Sehri     string // 12-hour display
	Iftar     string
	SehriRaw  string // 24-hour "HH:MM"
	IftarRaw  string
	NextEvent string // name of the soonest main event
	NextTime  string // countdown string
}

// BuildSummary selects the next-occurring Sehri and Iftar (today's if still
// in the future, else tomorrow's) and the overall next main event.
func BuildSummary(times []prayer.PrayerTime, now time.Time) (Summary, error) {
	var s Summary

	if next := prayer.NextByName(times, prayer.NameSehri, now); next != nil {
		s.SehriRaw = next.Time
		s.Sehri = prayer.To12Hour(next.Time)
	}
	if next := prayer.NextByName(times, prayer.NameIftar, now); next != nil {
		s.IftarRaw = next.Time
		s.Iftar = prayer.To12Hour(next.Time)
	}

	nextMain := nextMainEvent(times, now)
	if nextMain == nil {
		return s, ErrNoUpcomingEvent
	}
	s.NextEvent = nextMain.Name
	s.NextTime = prayer.Countdown(nextMain.Time, now)

	return s, nil
}

// nextMainEvent returns the soonest upcoming Sehri or Iftar, falling back to
// tomorrow's Sehri when every main event is classified as past.
func nextMainEvent(times []prayer.PrayerTime, now time.Time) *prayer.PrayerTime {
	clock := now.Format("15:04")
	for i := range times {
		if !times[i].IsMainEvent() {
			continue
		}
		if times[i].IsTomorrow || times[i].Time > clock {
			return &times[i]
		}
	}
	for i := range times {
		if times[i].IsTomorrow && times[i].Name == prayer.NameSehri {
			return &times[i]
		}
	}
	return nil
}

// Coordinator owns the widget state and notification requests.
type Coordinator struct {
	store    store.Store
	notifier Notifier
	log      zerolog.Logger

	// refresh is invoked after the summary is persisted, telling the widget
	// collaborator to re-read its state. Optional.
	refresh func()
}

// NewCoordinator creates a Coordinator. notifier may be nil when the caller
// only maintains widget state.
func NewCoordinator(s store.Store, notifier Notifier, log zerolog.Logger) *Coordinator {
	return &Coordinator{store: s, notifier: notifier, log: log}
}

// OnWidgetRefresh registers the widget refresh hook.
func (c *Coordinator) OnWidgetRefresh(fn func()) {
	c.refresh = fn
}

// UpdateWidget recomputes the summary and persists it under the fixed keys.
func (c *Coordinator) UpdateWidget(times []prayer.PrayerTime, now time.Time) error {
	summary, err := BuildSummary(times, now)
	if err != nil {
		return err
	}

	fields := map[string]string{
		store.KeySehri:     summary.Sehri,
		store.KeyIftar:     summary.Iftar,
		store.KeySehriRaw:  summary.SehriRaw,
		store.KeyIftarRaw:  summary.IftarRaw,
		store.KeyNextEvent: summary.NextEvent,
		store.KeyNextTime:  summary.NextTime,
	}
	for key, value := range fields {
		if err := c.store.Set(key, value); err != nil {
			return err
		}
	}

	if c.refresh != nil {
		c.refresh()
	}

	c.log.Debug().
		Str("next", summary.NextEvent).
		Str("in", summary.NextTime).
		Msg("widget summary updated")
	return nil
}

// ScheduleEvents requests the two notifications from today's timetable:
// Sehri at id 1001, Iftar at id 1002, each at the next occurrence of its
// wall-clock time (today if still ahead, else tomorrow).
func (c *Coordinator) ScheduleEvents(times []prayer.PrayerTime, now time.Time) error {
	if c.notifier == nil {
		return nil
	}

	events := []struct {
		name    string
		id      int
		title   string
		message string
	}{
		{prayer.NameSehri, SehriNotificationID, "Sehri Time", "It's time for Sehri!"},
		{prayer.NameIftar, IftarNotificationID, "Iftar Time", "It's time for Iftar!"},
	}

	for _, ev := range events {
		entry := todayEntry(times, ev.name)
		if entry == nil || entry.Time == "" {
			continue
		}

		at, err := prayer.NextInstant(entry.Time, now)
		if err != nil {
			c.log.Warn().Str("event", ev.name).Err(err).Msg("skipping notification")
			continue
		}

		if err := c.notifier.Schedule(at, ev.title, ev.message, ev.id); err != nil {
			return err
		}

		c.log.Info().
			Str("event", ev.name).
			Time("at", at).
			Int("id", ev.id).
			Msg("notification scheduled")
	}

	return nil
}

func todayEntry(times []prayer.PrayerTime, name string) *prayer.PrayerTime {
	for i := range times {
		if times[i].Name == name && !times[i].IsTomorrow {
			return &times[i]
		}
	}
	return nil
}
