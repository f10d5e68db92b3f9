package chargelog

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/chargetime/core/model"
)

// ProfileCount is the number of logged charges for one setting.
type ProfileCount struct {
	Label string
	Count int
}

// Stats summarizes a history.
type Stats struct {
	Count int
	// Starting battery percentage.
	MeanStartPct   float64
	StdDevStartPct float64
	MinStartPct    float64
	MaxStartPct    float64
	// Hours between logging a charge and its projected end.
	MeanPlannedHours float64
	// Most used first, ties broken by label.
	Profiles []ProfileCount
	First    time.Time
	Last     time.Time
}

// Summarize computes Stats over entries.
func Summarize(entries []model.LogEntry) Stats {
	st := Stats{Count: len(entries)}
	if len(entries) == 0 {
		return st
	}
	pct := make([]float64, len(entries))
	planned := make([]float64, len(entries))
	counts := map[string]int{}
	st.First, st.Last = entries[0].Timestamp, entries[0].Timestamp
	for i, e := range entries {
		pct[i] = float64(e.BatteryPercentage)
		planned[i] = e.CalculatedEndTime.Sub(e.Timestamp).Hours()
		counts[e.SelectedProfileName]++
		if e.Timestamp.Before(st.First) {
			st.First = e.Timestamp
		}
		if e.Timestamp.After(st.Last) {
			st.Last = e.Timestamp
		}
	}
	st.MeanStartPct = stat.Mean(pct, nil)
	if len(pct) > 1 {
		st.StdDevStartPct = stat.StdDev(pct, nil)
	}
	st.MinStartPct = floats.Min(pct)
	st.MaxStartPct = floats.Max(pct)
	st.MeanPlannedHours = stat.Mean(planned, nil)

	for label, n := range counts {
		st.Profiles = append(st.Profiles, ProfileCount{Label: label, Count: n})
	}
	sort.Slice(st.Profiles, func(i, j int) bool {
		if st.Profiles[i].Count != st.Profiles[j].Count {
			return st.Profiles[i].Count > st.Profiles[j].Count
		}
		return st.Profiles[i].Label < st.Profiles[j].Label
	})
	return st
}
