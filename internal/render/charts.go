package render

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

const sparklineHeight = 4

// TopChart draws totals as a horizontal bar chart followed by a legend.
func TopChart(totals []analytics.Total, width int) string {
	if len(totals) == 0 {
		return dimStyle.Render("  no data")
	}
	data := make([]barchart.BarData, len(totals))
	for i, t := range totals {
		data[i] = barchart.BarData{
			Label: fmt.Sprintf("%d", i+1),
			Values: []barchart.BarValue{
				{Name: t.Label, Value: float64(t.Minutes), Style: barStyle},
			},
		}
	}
	bc := barchart.New(width, len(totals)*2,
		barchart.WithDataSet(data),
		barchart.WithHorizontalBars(),
	)
	bc.Draw()

	var b strings.Builder
	b.WriteString(bc.View())
	b.WriteString("\n")
	for i, t := range totals {
		fmt.Fprintf(&b, "  %2d %s %s\n", i+1, t.Label, dimStyle.Render(timecalc.FormatMinutes(t.Minutes)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Trend draws per-day minutes as a sparkline with the covered date range
// and the peak day underneath.
func Trend(days []analytics.DayTotal, width int) string {
	if len(days) == 0 {
		return dimStyle.Render("  no data")
	}
	if width < len(days) {
		width = len(days)
	}
	spark := sparkline.New(width, sparklineHeight)
	peak := days[0]
	for _, d := range days {
		spark.Push(float64(d.Minutes))
		if d.Minutes > peak.Minutes {
			peak = d
		}
	}
	spark.Draw()

	footer := fmt.Sprintf("%s → %s  peak %s on %s",
		days[0].Date.Format("Jan 02, 2006"),
		days[len(days)-1].Date.Format("Jan 02, 2006"),
		timecalc.FormatMinutes(peak.Minutes),
		peak.Date.Format("Jan 02"))
	return lipgloss.JoinVertical(lipgloss.Left, barStyle.Render(spark.View()), dimStyle.Render(footer))
}
