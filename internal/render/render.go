// Package render draws aggregates as terminal text: share tables, bar
// charts, sparklines and a shaded weekday heatmap. It only consumes
// analytics output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// shareBarWidth is the width of the proportional bar in share tables.
const shareBarWidth = 24

// Title writes a section heading.
func Title(w io.Writer, s string) {
	fmt.Fprintln(w, titleStyle.Render(s))
}

// Shares writes one row per total with its minutes, percentage of the sum
// and a proportional bar. It is the terminal stand-in for a pie chart.
func Shares(w io.Writer, totals []analytics.Total) {
	if len(totals) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no data"))
		return
	}
	sum, width := 0, 0
	for _, t := range totals {
		sum += t.Minutes
		if len(t.Label) > width {
			width = len(t.Label)
		}
	}
	for _, t := range totals {
		pct := 0.0
		if sum > 0 {
			pct = float64(t.Minutes) * 100 / float64(sum)
		}
		n := int(pct/100*shareBarWidth + 0.5)
		fmt.Fprintf(w, "  %s %9s %5.1f%% %s\n",
			labelStyle.Render(padRight(t.Label, width)),
			timecalc.FormatMinutes(t.Minutes),
			pct,
			barStyle.Render(strings.Repeat("█", n)))
	}
}

// Slices writes a single-day breakdown the same way as Shares.
func Slices(w io.Writer, slices []analytics.Slice) {
	totals := make([]analytics.Total, len(slices))
	for i, s := range slices {
		totals[i] = analytics.Total{Label: s.Label, Minutes: s.Minutes, Count: 1}
	}
	Shares(w, totals)
}

// Averages writes the per-day averages table.
func Averages(w io.Writer, avgs []analytics.Average) {
	width := 0
	for _, a := range avgs {
		if len(a.Label) > width {
			width = len(a.Label)
		}
	}
	for _, a := range avgs {
		fmt.Fprintf(w, "  %s %8.1f min/day\n", labelStyle.Render(padRight(a.Label, width)), a.Minutes)
	}
}

// Dashboard writes every section of d. Per-user totals are shown only when
// withUsers is set, as for an all-users scope.
func Dashboard(w io.Writer, d analytics.Dashboard, withUsers bool) {
	fmt.Fprintf(w, "Total entries: %d   Unique users: %d   Days: %d\n\n", d.TotalEntries, d.UniqueUsers, d.Days)

	if withUsers {
		Title(w, "Per-user summary")
		for _, u := range d.Users {
			fmt.Fprintf(w, "  %-20s %9s %4d entries\n", u.Label, timecalc.FormatMinutes(u.Minutes), u.Count)
		}
		fmt.Fprintln(w)
	}

	if d.Persona != "" {
		Title(w, "Summary of who you are")
		fmt.Fprintf(w, "  %s\n\n", d.Persona)
	}

	Title(w, "Activity breakdown")
	Shares(w, d.Groups)
	fmt.Fprintln(w)

	Title(w, "Average time per day (key activities)")
	Averages(w, d.Averages)
	fmt.Fprintln(w)

	Title(w, fmt.Sprintf("Top %d activities", len(d.Top)))
	fmt.Fprintln(w, TopChart(d.Top, 60))
	fmt.Fprintln(w)

	Title(w, "Total minutes per day")
	fmt.Fprintln(w, Trend(d.Daily, 60))
	fmt.Fprintln(w)

	Title(w, "Activity heatmap (group × weekday)")
	Heatmap(w, d.Heatmap)
	fmt.Fprintln(w)

	Title(w, fmt.Sprintf("Time spent on %s per day", d.TrendGroup))
	if len(d.Trend) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("  No %s activity found in selected date range.", d.TrendGroup)))
		return
	}
	fmt.Fprintln(w, Trend(d.Trend, 60))
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
