package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"

	"github.com/noorapp/noor/internal/api"
	"github.com/noorapp/noor/internal/schedule"
)

var flagInterval time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the refresh and notification daemon",
		Long: "Periodically refresh the daily timetable, keep the widget summary\n" +
			"current, and fire desktop notifications at Sehri (id 1001) and Iftar\n(id 1002).",
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&flagInterval, "interval", 30*time.Minute, "Refresh interval")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	s := openStore(cfg)
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lat, lon, err := resolveCoordinate(ctx, cfg, s)
	if err != nil {
		return err
	}

	notifier := schedule.NewDesktopNotifier(log)
	defer notifier.Stop()

	coord := schedule.NewCoordinator(s, notifier, log)
	client := api.NewClient()

	refresh := func() {
		// Per-cycle deadline so one stuck refresh cannot pile onto the next.
		cycleCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		now := time.Now()

		times, err := fetchDaily(cycleCtx, client, lat, lon, now)
		if err != nil {
			log.Error().Err(err).Msg("refresh failed")
			return
		}

		if err := coord.UpdateWidget(times, now); err != nil {
			log.Error().Err(err).Msg("widget summary update failed")
		}
		if err := coord.ScheduleEvents(times, now); err != nil {
			log.Error().Err(err).Msg("notification scheduling failed")
		}
	}

	// First refresh immediately; the scheduler handles the rest.
	refresh()

	scheduler := gocron.NewScheduler(time.Local)
	if _, err := scheduler.Every(flagInterval).Do(refresh); err != nil {
		return err
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	log.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Dur("interval", flagInterval).
		Msg("watching")

	<-ctx.Done()
	log.Info().Msg("shutting down")
	return nil
}
