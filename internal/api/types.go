package api

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Response represents the top-level Al Adhan API response for a single day.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Day    `json:"data"`
}

// CalendarResponse represents the Al Adhan calendar API response.
// The calendar endpoint returns an array of daily data objects for a whole month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Day  `json:"data"`
}

// Day holds one day's prayer timings and date info.
type Day struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains prayer and event times as "HH:MM" strings.
// The API may append a timezone suffix like " (BST)" which callers strip.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"` // e.g. "15 Mar 2025"
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
// Day and Year arrive as either numbers or numeric strings depending on the
// endpoint, so both use FlexInt.
type HijriDate struct {
	Day   FlexInt    `json:"day"`
	Month HijriMonth `json:"month"`
	Year  FlexInt    `json:"year"`
}

// HijriMonth is the Hijri month. The API usually sends an object with a
// "number" field, but some endpoints send the bare month number.
type HijriMonth struct {
	Number int
	En     string
}

func (m *HijriMonth) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if len(s) > 0 && s[0] == '{' {
		var obj struct {
			Number int    `json:"number"`
			En     string `json:"en"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		m.Number = obj.Number
		m.En = obj.En
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	m.Number = n
	return nil
}

func (m HijriMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number int    `json:"number"`
		En     string `json:"en,omitempty"`
	}{m.Number, m.En})
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date  string         `json:"date"` // "15-03-2025"
	Day   FlexInt        `json:"day"`
	Month GregorianMonth `json:"month"`
	Year  FlexInt        `json:"year"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// FlexInt decodes a JSON value that may be a number or a numeric string.
// A value that cannot be normalized leaves Valid false instead of failing
// the whole batch; callers skip that record.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		f.Value = 0
		f.Valid = false
		return nil
	}
	f.Value = n
	f.Valid = true
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Int returns the normalized value and whether normalization succeeded.
func (f FlexInt) Int() (int, bool) {
	return f.Value, f.Valid
}
