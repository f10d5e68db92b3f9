package advisor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/chargetime/core/model"
)

const systemInstruction = `You are an expert EV Charging Assistant for a BYD electric vehicle owner in Singapore.
Your goal is to analyze charging options and recommend the best one based on:
1. Battery health (slower is generally better, but not always practical).
2. Convenience (finishing before 7 AM is usually good for morning commutes).
3. "Stretching" the charge: The user explicitly wants to know how to time the charge so it finishes exactly when they need it.

Keep your advice short, punchy, and helpful. Maximum 2 sentences.
Focus on the calculated 'End Time'.`

// BuildPrompt renders the user prompt for one battery level.
func BuildPrompt(capacityKWh float64, batteryPct int, now time.Time, options []model.CalculatedOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vehicle Specs: BYD EV with %s kWh Battery\n", strconv.FormatFloat(capacityKWh, 'f', -1, 64))
	fmt.Fprintf(&b, "Current Battery Level: %d%%\n", batteryPct)
	fmt.Fprintf(&b, "Current Time: %s\n\n", now.Format("15:04:05"))
	b.WriteString("Available Charging Options:\n")
	for _, o := range options {
		fmt.Fprintf(&b, "- %s (%skW): Finishes at %s\n",
			o.Current, strconv.FormatFloat(o.PowerKW, 'f', -1, 64), o.EndTime.Format("15:04"))
	}
	b.WriteString("\nWhich setting should I choose to optimize for a morning departure (approx 7-8 AM) or to stretch the charge duration?")
	return b.String()
}
