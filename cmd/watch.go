package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargetime/core/advisor"
	"github.com/kilianp07/chargetime/core/events"
	"github.com/kilianp07/chargetime/infra/logger"
	"github.com/kilianp07/chargetime/infra/metrics"
)

var (
	watchBattery int
	watchAdvice  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the clock and the projected finish times up to date until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVarP(&watchBattery, "battery", "b", 30, "current battery percentage (clamped to 0-100)")
	watchCmd.Flags().BoolVar(&watchAdvice, "advise", false, "request AI advice on every recalculation")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	return withStack(ctx, out, cfg, func(r *stack) error {
		log := logger.New("watch")
		s := r.session
		s.SetBattery(watchBattery)

		if cfg.Metrics.PrometheusEnabled {
			go func() {
				if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusPort); err != nil {
					log.Errorf("prom server: %v", err)
				}
			}()
		}
		collected := metrics.StartEventCollector(ctx, s.Bus(), r.recorder)
		sub := s.Bus().Subscribe()
		defer s.Bus().Unsubscribe(sub)

		runErr := make(chan error, 1)
		go func() { runErr <- s.Run(ctx) }()

		for {
			select {
			case err := <-runErr:
				<-collected
				return err
			case ev, ok := <-sub:
				if !ok {
					return nil
				}
				handleWatchEvent(ctx, out, r, ev, log)
			}
		}
	})
}

func handleWatchEvent(ctx context.Context, out io.Writer, r *stack, ev events.Event, log logger.Logger) {
	switch e := ev.(type) {
	case events.ClockTick:
		fmt.Fprintf(out, "\r%s ", e.Time.Format("03:04:05 PM"))
	case events.CalcTick:
		fmt.Fprintln(out)
		if err := renderOptions(out, e.BatteryPct, e.Time, e.Options); err != nil {
			log.Errorf("render options: %v", err)
		}
		if watchAdvice {
			if _, err := r.session.RequestAdvice(ctx); err != nil && !errors.Is(err, advisor.ErrInFlight) {
				log.Errorf("request advice: %v", err)
			}
		}
	case events.AdviceSettled:
		fmt.Fprintf(out, "\nAdvice: %s\n", e.Message)
	}
}
