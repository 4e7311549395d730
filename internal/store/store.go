// Package store is the persisted string-keyed state shared between the CLI,
// the watch daemon, and the widget binary.
package store

// Keys used in the persisted state. The widget binary reads the summary
// keys and must agree with the coordinator on their names.
const (
	KeySehri     = "sehri"     // next Sehri, 12-hour display
	KeyIftar     = "iftar"     // next Iftar, 12-hour display
	KeySehriRaw  = "sehri_raw" // next Sehri, 24-hour "HH:MM"
	KeyIftarRaw  = "iftar_raw" // next Iftar, 24-hour "HH:MM"
	KeyNextEvent = "nextEvent" // name of the next main event
	KeyNextTime  = "nextTime"  // countdown string for the next main event

	KeyLastLat  = "lastLat"
	KeyLastLon  = "lastLon"
	KeyDarkMode = "darkMode"

	KeyRamadanCacheKey  = "ramadan_cache_key"
	KeyRamadanCacheTime = "ramadan_cache_time"
	KeyRamadanCacheData = "ramadan_cache_data"
)

// Store is a string-keyed get/set store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes the value for key, overwriting any previous value.
	Set(key, value string) error
	Close() error
}
