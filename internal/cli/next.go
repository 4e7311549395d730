package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/prayer"
)

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next event with countdown",
		Long:  "Print the next upcoming timetable entry on a single line, suitable for\nscripting and status bars.",
		RunE:  runNext,
	}
}

func runNext(cmd *cobra.Command, args []string) error {
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

	next := prayer.NextEvent(times, now)
	if next == nil {
		return fmt.Errorf("could not determine next event")
	}

	countdown := prayer.Countdown(next.Time, now)

	if FlagJSON {
		out := struct {
			Name      string `json:"name"`
			Time      string `json:"time"`
			Countdown string `json:"countdown"`
			Tomorrow  bool   `json:"tomorrow"`
		}{next.Name, displayTime(cfg, next.Time), countdown, next.IsTomorrow}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s %s (%s)\n", next.Name, displayTime(cfg, next.Time), countdown)
	return nil
}
