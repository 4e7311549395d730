package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/config"
	"github.com/noorapp/noor/internal/display"
	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/schedule"
)

func runToday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	s := openStore(cfg)
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lat, lon, err := resolveCoordinate(ctx, cfg, s)
	if err != nil {
		return err
	}

	now := time.Now()

	times, err := fetchDaily(ctx, api.NewClient(), lat, lon, now)
	if err != nil {
		return err
	}

	// Keep the widget summary fresh on every successful daily fetch.
	coord := schedule.NewCoordinator(s, nil, log)
	if err := coord.UpdateWidget(times, now); err != nil {
		log.Warn().Err(err).Msg("widget summary not updated")
	}

	next := prayer.NextEvent(times, now)

	if FlagJSON {
		return printTodayJSON(cfg, times, next, now, lat, lon)
	}

	printTodayRich(cfg, times, next, now, lat, lon)
	return nil
}

// printTodayRich renders the daily timetable: the next event with countdown,
// then the upcoming five entries, tomorrow's tagged.
func printTodayRich(cfg *config.Config, times []prayer.PrayerTime, next *prayer.PrayerTime, now time.Time, lat, lon float64) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Noor"))
	fmt.Printf("  %s\n", now.Format("Monday, 2 January"))
	fmt.Printf("  %.4f, %.4f\n", lat, lon)
	fmt.Println()

	if next != nil {
		countdown := prayer.Countdown(next.Time, now)
		line := fmt.Sprintf("Next: %s  %s", next.Name, displayTime(cfg, next.Time))
		if countdown != "" {
			line += fmt.Sprintf("  (in %s)", countdown)
		}
		fmt.Printf("  %s\n", display.Accent(line))
		fmt.Println()
	}

	clock := now.Format("15:04")
	shown := 0
	for _, p := range times {
		if !p.IsTomorrow && p.Time <= clock {
			continue
		}
		if shown >= 5 {
			break
		}

		label := p.Name
		if p.IsTomorrow {
			label += " (tomorrow)"
		}
		line := fmt.Sprintf("  %-28s %s", label, displayTime(cfg, p.Time))
		if p.IsMainEvent() {
			fmt.Println(display.Bold(line))
		} else {
			fmt.Println(line)
		}
		shown++
	}

	if shown == 0 {
		fmt.Println("  No prayer times available.")
	}
	fmt.Println()
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Latitude  float64            `json:"latitude"`
	Longitude float64            `json:"longitude"`
	Date      string             `json:"date"`
	Times     []prayer.PrayerTime `json:"times"`
	Next      *todayJSONNext     `json:"next,omitempty"`
}

type todayJSONNext struct {
	Name      string `json:"name"`
	Time      string `json:"time"`
	Countdown string `json:"countdown"`
}

func printTodayJSON(cfg *config.Config, times []prayer.PrayerTime, next *prayer.PrayerTime, now time.Time, lat, lon float64) error {
	out := todayJSON{
		Latitude:  lat,
		Longitude: lon,
		Date:      now.Format("2006-01-02"),
		Times:     times,
	}
	if next != nil {
		out.Next = &todayJSONNext{
			Name:      next.Name,
			Time:      displayTime(cfg, next.Time),
			Countdown: prayer.Countdown(next.Time, now),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
