package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/cache"
	"github.com/noorapp/noor/internal/config"
	"github.com/noorapp/noor/internal/display"
	"github.com/noorapp/noor/internal/prayer"
	"github.com/noorapp/noor/internal/ramadan"
)

var flagRefresh bool

func newRamadanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ramadan",
		Short: "Show the Ramadan timetable",
		Long:  "Resolve and display the Sehri/Iftar timetable for the current or next\nupcoming Ramadan at your location. Results are cached for 12 hours.",
		RunE:  runRamadan,
	}

	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Bypass the cache and resolve again")

	return cmd
}

func runRamadan(cmd *cobra.Command, args []string) error {
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
	c := cache.New(s)

	var days []prayer.DayPrayerTimes
	if !flagRefresh {
		days = c.Load(lat, lon)
	}

	if days == nil {
		resolver := ramadan.NewResolver(api.NewClient(), log)
		days, err = resolver.Resolve(ctx, lat, lon, now)
		if errors.Is(err, ramadan.ErrNoData) {
			return fmt.Errorf("no Ramadan data found for %.4f, %.4f: check the connection and retry with --refresh", lat, lon)
		}
		if err != nil {
			return err
		}

		if err := c.Save(lat, lon, days); err != nil {
			log.Warn().Err(err).Msg("timetable not cached")
		}
	} else {
		log.Debug().Str("key", cache.Key(lat, lon)).Msg("serving timetable from cache")
	}

	if FlagJSON {
		data, err := json.MarshalIndent(days, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printRamadanTable(cfg, days)
	return nil
}

func printRamadanTable(cfg *config.Config, days []prayer.DayPrayerTimes) {
	fmt.Println()
	fmt.Printf("  %s\n", display.Bold("Ramadan Timetable"))
	fmt.Printf("  %s\n", display.Dim(fmt.Sprintf("%d remaining days", len(days))))
	fmt.Println()

	tbl := display.NewTable([]string{"Day", "Date", "Sehri", "Iftar"})
	tbl.RightAlign(2, 3)
	for _, d := range days {
		tbl.AddRow([]string{d.DayLabel, d.DateLabel, displayTime(cfg, d.Sehri), displayTime(cfg, d.Iftar)})
	}
	// The first row is always today or the first fast.
	tbl.SetHighlightRow(0)

	fmt.Print(tbl.Render())
	fmt.Println()
}
