package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var adviseBattery int

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask the AI assistant which profile to use",
	Args:  cobra.NoArgs,
	RunE:  runAdvise,
}

func init() {
	adviseCmd.Flags().IntVarP(&adviseBattery, "battery", "b", 30, "current battery percentage (clamped to 0-100)")
	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		r.session.SetBattery(adviseBattery)
		msg, err := r.session.Advice(cmd.Context())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	})
}
