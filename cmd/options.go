package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	batteryPct int
	atFlag     string
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show when each charging profile would finish",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	optionsCmd.Flags().IntVarP(&batteryPct, "battery", "b", 30, "current battery percentage (clamped to 0-100)")
	optionsCmd.Flags().StringVar(&atFlag, "at", "", "start time, RFC 3339 or HH:MM today (default now)")
	rootCmd.AddCommand(optionsCmd)
}

func runOptions(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		s := r.session
		pct := s.SetBattery(batteryPct)
		if atFlag != "" {
			at, err := parseAt(atFlag, s.Now())
			if err != nil {
				return err
			}
			s.SetCalcTime(at)
		}
		return renderOptions(cmd.OutOrStdout(), pct, s.CalcTime(), s.Options())
	})
}

// parseAt reads an RFC 3339 timestamp, or a wall-clock HH:MM on now's day in
// now's location.
func parseAt(v string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.In(now.Location()), nil
	}
	hm, err := time.ParseInLocation("15:04", v, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at %q: want RFC 3339 or HH:MM", v)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, now.Location()), nil
}
