package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/store"
)

// fakeNotifier records scheduling calls, replacing by id like the real one.
type fakeNotifier struct {
	calls map[int]struct {
		at             time.Time
		title, message string
	}
	order []int
	err   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: map[int]struct {
		at             time.Time
		title, message string
	}{}}
}

func (f *fakeNotifier) Schedule(at time.Time, title, message string, id int) error {
	if f.err != nil {
		return f.err
	}
	f.calls[id] = struct {
		at             time.Time
		title, message string
	}{at, title, message}
	f.order = append(f.order, id)
	return nil
}

func dailyTimetable() []prayer.PrayerTime {
	today := []prayer.PrayerTime{
		{Name: prayer.NameSehri, Time: "05:17"},
		{Name: prayer.NameDhuhr, Time: "12:13"},
		{Name: prayer.NameAsr, Time: "15:02"},
		{Name: prayer.NameIftar, Time: "17:39"},
		{Name: prayer.NameIsha, Time: "19:10"},
	}
	var all []prayer.PrayerTime
	all = append(all, today...)
	for _, p := range today {
		p.IsTomorrow = true
		all = append(all, p)
	}
	return all
}

func noon() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildSummary_MidDay(t *testing.T) {
	s, err := BuildSummary(dailyTimetable(), noon())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Sehri passed; the next one is tomorrow's, same wall-clock time.
	if s.SehriRaw != "05:17" || s.Sehri != "05:17 AM" {
		t.Errorf("sehri = %q/%q", s.Sehri, s.SehriRaw)
	}
	if s.IftarRaw != "17:39" || s.Iftar != "05:39 PM" {
		t.Errorf("iftar = %q/%q", s.Iftar, s.IftarRaw)
	}
	if s.NextEvent != prayer.NameIftar {
		t.Errorf("next event = %q, want %q", s.NextEvent, prayer.NameIftar)
	}
	if s.NextTime != "5h 39m" {
		t.Errorf("next time = %q, want %q", s.NextTime, "5h 39m")
	}
}

func TestBuildSummary_LateNightFallsToTomorrowSehri(t *testing.T) {
	late := time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)
	s, err := BuildSummary(dailyTimetable(), late)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.NextEvent != prayer.NameSehri {
		t.Errorf("next event = %q, want %q", s.NextEvent, prayer.NameSehri)
	}
}

func TestBuildSummary_EmptyTimetable(t *testing.T) {
	if _, err := BuildSummary(nil, noon()); !errors.Is(err, ErrNoUpcomingEvent) {
		t.Fatalf("got %v, want ErrNoUpcomingEvent", err)
	}
}

func TestUpdateWidget_PersistsSummaryKeys(t *testing.T) {
	mem := store.NewMemStore()
	c := NewCoordinator(mem, nil, zerolog.Nop())

	refreshed := false
	c.OnWidgetRefresh(func() { refreshed = true })

	if err := c.UpdateWidget(dailyTimetable(), noon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		store.KeySehri:     "05:17 AM",
		store.KeyIftar:     "05:39 PM",
		store.KeySehriRaw:  "05:17",
		store.KeyIftarRaw:  "17:39",
		store.KeyNextEvent: prayer.NameIftar,
		store.KeyNextTime:  "5h 39m",
	}
	for key, wantValue := range want {
		v, found, err := mem.Get(key)
		if err != nil || !found {
			t.Fatalf("key %q missing (err=%v)", key, err)
		}
		if v != wantValue {
			t.Errorf("key %q = %q, want %q", key, v, wantValue)
		}
	}

	if !refreshed {
		t.Error("widget refresh hook not invoked")
	}
}

func TestUpdateWidget_EmptyTimetableDoesNotPersist(t *testing.T) {
	mem := store.NewMemStore()
	c := NewCoordinator(mem, nil, zerolog.Nop())

	if err := c.UpdateWidget(nil, noon()); err == nil {
		t.Fatal("expected error for empty timetable")
	}
	if _, found, _ := mem.Get(store.KeyNextEvent); found {
		t.Error("summary keys should not be written on failure")
	}
}

func TestScheduleEvents_BothNotificationsRequested(t *testing.T) {
	notifier := newFakeNotifier()
	c := NewCoordinator(store.NewMemStore(), notifier, zerolog.Nop())

	if err := c.ScheduleEvents(dailyTimetable(), noon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sehri, ok := notifier.calls[SehriNotificationID]
	if !ok {
		t.Fatal("no Sehri notification scheduled")
	}
	if sehri.title != "Sehri Time" || sehri.message != "It's time for Sehri!" {
		t.Errorf("sehri notification = %q / %q", sehri.title, sehri.message)
	}
	// 05:17 already passed at noon: the instant rolls to tomorrow morning.
	wantSehriAt := time.Date(2025, 3, 2, 5, 17, 0, 0, time.UTC)
	if !sehri.at.Equal(wantSehriAt) {
		t.Errorf("sehri at %v, want %v", sehri.at, wantSehriAt)
	}

	iftar, ok := notifier.calls[IftarNotificationID]
	if !ok {
		t.Fatal("no Iftar notification scheduled")
	}
	if iftar.title != "Iftar Time" || iftar.message != "It's time for Iftar!" {
		t.Errorf("iftar notification = %q / %q", iftar.title, iftar.message)
	}
	// 17:39 is still ahead today.
	wantIftarAt := time.Date(2025, 3, 1, 17, 39, 0, 0, time.UTC)
	if !iftar.at.Equal(wantIftarAt) {
		t.Errorf("iftar at %v, want %v", iftar.at, wantIftarAt)
	}
}

func TestScheduleEvents_NilNotifierIsNoop(t *testing.T) {
	c := NewCoordinator(store.NewMemStore(), nil, zerolog.Nop())
	if err := c.ScheduleEvents(dailyTimetable(), noon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScheduleEvents_NotifierErrorPropagates(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.err = errors.New("daemon unavailable")
	c := NewCoordinator(store.NewMemStore(), notifier, zerolog.Nop())

	if err := c.ScheduleEvents(dailyTimetable(), noon()); err == nil {
		t.Fatal("expected error from notifier")
	}
}

func TestScheduleEvents_MissingEntrySkipped(t *testing.T) {
	notifier := newFakeNotifier()
	c := NewCoordinator(store.NewMemStore(), notifier, zerolog.Nop())

	// Only an Iftar entry today; Sehri is absent.
	times := []prayer.PrayerTime{{Name: prayer.NameIftar, Time: "17:39"}}
	if err := c.ScheduleEvents(times, noon()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := notifier.calls[SehriNotificationID]; ok {
		t.Error("Sehri should not be scheduled without a today entry")
	}
	if _, ok := notifier.calls[IftarNotificationID]; !ok {
		t.Error("Iftar should be scheduled")
	}
}

func TestDesktopNotifier_ReplacesById(t *testing.T) {
	n := NewDesktopNotifier(zerolog.Nop())
	defer n.Stop()

	far := time.Now().Add(time.Hour)
	if err := n.Schedule(far, "Sehri Time", "first", SehriNotificationID); err != nil {
		t.Fatalf("first schedule: %v", err)
	}
	if err := n.Schedule(far, "Sehri Time", "second", SehriNotificationID); err != nil {
		t.Fatalf("second schedule: %v", err)
	}

	n.mu.Lock()
	count := len(n.timers)
	n.mu.Unlock()
	if count != 1 {
		t.Errorf("got %d timers, want 1 (same id replaces)", count)
	}
}

func TestDesktopNotifier_StopClearsTimers(t *testing.T) {
	n := NewDesktopNotifier(zerolog.Nop())

	far := time.Now().Add(time.Hour)
	n.Schedule(far, "Sehri Time", "m", SehriNotificationID)
	n.Schedule(far, "Iftar Time", "m", IftarNotificationID)
	n.Stop()

	n.mu.Lock()
	count := len(n.timers)
	n.mu.Unlock()
	if count != 0 {
		t.Errorf("got %d timers after Stop, want 0", count)
	}
}
