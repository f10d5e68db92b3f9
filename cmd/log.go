package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargetime/core/chargelog"
	"github.com/kilianp07/chargetime/core/model"
)

var (
	logBattery int
	logProfile string
	assumeYes  bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Charge log commands",
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a charge with the selected profile",
	Args:  cobra.NoArgs,
	RunE:  runLogAdd,
}

var logLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List logged charges, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runLogLs,
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every logged charge",
	Args:  cobra.NoArgs,
	RunE:  runLogClear,
}

var logStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the charge log",
	Args:  cobra.NoArgs,
	RunE:  runLogStats,
}

var logJournalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Print the rotating journal of log changes",
	Args:  cobra.NoArgs,
	RunE:  runLogJournal,
}

func init() {
	logAddCmd.Flags().IntVarP(&logBattery, "battery", "b", 30, "current battery percentage (clamped to 0-100)")
	logAddCmd.Flags().StringVarP(&logProfile, "profile", "p", "", "profile name, label or current, e.g. Maximum, 16A, Max")
	_ = logAddCmd.MarkFlagRequired("profile")
	logClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	logCmd.AddCommand(logAddCmd, logLsCmd, logClearCmd, logStatsCmd, logJournalCmd)
	rootCmd.AddCommand(logCmd)
}

func runLogAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		r.session.SetBattery(logBattery)
		if _, err := r.session.Select(cmd.Context(), logProfile); err != nil {
			if errors.Is(err, model.ErrUnknownProfile) {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: charge kept for this run only: %v\n", err)
		}
		return nil
	})
}

func runLogLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		return renderHistory(cmd.OutOrStdout(), r.clock.Location(), r.session.Store().Entries())
	})
}

func runLogClear(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		if !assumeYes {
			fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to clear your charging history? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		n, err := r.session.ClearLogs(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: history cleared for this run only: %v\n", err)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries.\n", n)
		return nil
	})
}

func runLogStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return withStack(cmd.Context(), cmd.OutOrStdout(), cfg, func(r *stack) error {
		stats := chargelog.Summarize(r.session.Store().Entries())
		return renderStats(cmd.OutOrStdout(), r.clock.Location(), stats)
	})
}

func runLogJournal(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	j := cfg.Store.Journal
	journal, err := chargelog.NewRotatingJournal(j.Path, j.MaxSizeMB, j.MaxBackups, j.MaxAgeDays)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()
	records, err := journal.ReadAll()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "Journal is empty.")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "TIME\tACTION\tDETAIL")
	for _, rec := range records {
		detail := fmt.Sprintf("%d removed", rec.Cleared)
		if rec.Entry != nil {
			detail = fmt.Sprintf("%s at %d%%", rec.Entry.SelectedProfileName, rec.Entry.BatteryPercentage)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Time.Format("02 Jan 2006 15:04:05"), rec.Action, detail)
	}
	return tw.Flush()
}
