package prayer

import (
	"time"

	"github.com/noorapp/noor/internal/api"
)

// PrayerTime is a single entry in the daily timetable.
// Time is a zero-padded 24-hour "HH:MM" string; entries belonging to
// tomorrow's schedule carry IsTomorrow.
type PrayerTime struct {
	Name       string `json:"name"`
	Time       string `json:"time"`
	IsTomorrow bool   `json:"isTomorrow"`
}

// DayPrayerTimes is one Ramadan calendar day.
type DayPrayerTimes struct {
	DayLabel  string `json:"dayLabel"`  // Hijri day of month, "1".."30"
	DateLabel string `json:"dateLabel"` // short Gregorian label, e.g. "15 Mar"
	Sehri     string `json:"sehri"`     // "HH:MM"
	Iftar     string `json:"iftar"`     // "HH:MM"
}

// Daily entry names, in chronological order. Sehri doubles as Fajr and
// Iftar as Maghrib, mirroring what the timetable shows during Ramadan.
const (
	NameSehri = "Sehri / Fajr"
	NameDhuhr = "Dhuhr"
	NameAsr   = "Asr"
	NameIftar = "Iftar / Maghrib"
	NameIsha  = "Isha"
)

// IsMainEvent reports whether the entry is one of the two fasting events.
func (p PrayerTime) IsMainEvent() bool {
	return p.Name == NameSehri || p.Name == NameIftar
}

// FromTimings converts one day's API timings into the five canonical
// timetable entries. Timezone suffixes are stripped from each value.
func FromTimings(t api.Timings, tomorrow bool) []PrayerTime {
	names := []struct {
		name string
		raw  string
	}{
		{NameSehri, t.Fajr},
		{NameDhuhr, t.Dhuhr},
		{NameAsr, t.Asr},
		{NameIftar, t.Maghrib},
		{NameIsha, t.Isha},
	}

	times := make([]PrayerTime, 0, len(names))
	for _, n := range names {
		times = append(times, PrayerTime{
			Name:       n.name,
			Time:       TimeToken(n.raw),
			IsTomorrow: tomorrow,
		})
	}
	return times
}

// BuildDaily assembles the full daily timetable: today's five entries
// followed by tomorrow's five, flagged IsTomorrow.
func BuildDaily(today, tomorrow api.Timings) []PrayerTime {
	return append(FromTimings(today, false), FromTimings(tomorrow, true)...)
}

// NextEvent returns the first upcoming entry in list order: the first whose
// IsTomorrow is set, or whose time is strictly after the current wall-clock
// "HH:MM". Lexicographic comparison is valid because times are zero-padded.
// Returns nil for an empty list.
func NextEvent(times []PrayerTime, now time.Time) *PrayerTime {
	clock := now.Format("15:04")
	for i := range times {
		if times[i].IsTomorrow || times[i].Time > clock {
			return &times[i]
		}
	}
	return nil
}

// NextByName returns the first upcoming entry whose Name matches, using the
// same today-then-tomorrow ordering rule as NextEvent.
func NextByName(times []PrayerTime, name string, now time.Time) *PrayerTime {
	clock := now.Format("15:04")
	for i := range times {
		if times[i].Name != name {
			continue
		}
		if times[i].IsTomorrow || times[i].Time > clock {
			return &times[i]
		}
	}
	return nil
}
