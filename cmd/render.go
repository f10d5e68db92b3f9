package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/kilianp07/chargetime/core/chargelog"
	"github.com/kilianp07/chargetime/core/charging"
	"github.com/kilianp07/chargetime/core/model"
)

const (
	clockLayout = "03:04 PM"
	dateLayout  = "Mon 02 Jan"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func kw(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) + " kW" }

func renderProfiles(w io.Writer, profiles []model.ChargingProfile) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tCURRENT\tPOWER\tFULL CHARGE")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Current, kw(p.PowerKW), charging.FormatDuration(p.FullChargeTimeHrs))
	}
	return tw.Flush()
}

func renderOptions(w io.Writer, pct int, base time.Time, options []model.CalculatedOption) error {
	fmt.Fprintf(w, "Battery %d%%, calculated at %s (%s)\n\n", pct, base.Format("15:04 Mon 02 Jan"), base.Location())
	tw := newTable(w)
	fmt.Fprintln(tw, "SETTING\tPOWER\tDURATION\tFINISH\tDATE\t")
	for _, o := range options {
		mark := ""
		if o.MorningSlot() {
			mark = "OPTIMAL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Title(), kw(o.PowerKW), charging.FormatDuration(o.DurationHrs),
			o.EndTime.Format(clockLayout), o.EndTime.Format(dateLayout), mark)
	}
	return tw.Flush()
}

func renderHistory(w io.Writer, loc *time.Location, entries []model.LogEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No charging history yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tINITIAL\tSETTING\tENDS")
	for _, e := range chargelog.NewestFirst(entries) {
		end := e.CalculatedEndTime.In(loc)
		fmt.Fprintf(tw, "%s\t%d%%\t%s\t%s %s\n",
			e.Timestamp.In(loc).Format("02 Jan 2006 15:04"), e.BatteryPercentage, e.SelectedProfileName,
			end.Format(clockLayout), end.Format(dateLayout))
	}
	return tw.Flush()
}

func renderStats(w io.Writer, loc *time.Location, s chargelog.Stats) error {
	if s.Count == 0 {
		_, err := fmt.Fprintln(w, "No charging history yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "Charges logged\t%d\n", s.Count)
	fmt.Fprintf(tw, "Starting battery\t%.1f%% (sd %.1f, min %.0f%%, max %.0f%%)\n",
		s.MeanStartPct, s.StdDevStartPct, s.MinStartPct, s.MaxStartPct)
	fmt.Fprintf(tw, "Average planned charge\t%s\n", charging.FormatDuration(s.MeanPlannedHours))
	fmt.Fprintf(tw, "First\t%s\n", s.First.In(loc).Format("02 Jan 2006 15:04"))
	fmt.Fprintf(tw, "Last\t%s\n", s.Last.In(loc).Format("02 Jan 2006 15:04"))
	for _, p := range s.Profiles {
		fmt.Fprintf(tw, "  %s\t%d\n", p.Label, p.Count)
	}
	return tw.Flush()
}
