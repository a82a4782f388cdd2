package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// shades run from the faintest to the strongest cell colour.
var shades = []*color.Color{
	color.New(color.FgHiBlack),
	color.New(color.FgCyan),
	color.New(color.FgHiCyan),
	color.New(color.FgBlue),
	color.New(color.FgHiBlue, color.Bold),
}

// Shade returns the index into the heatmap palette for v relative to top.
// Zero always maps to the faintest shade.
func Shade(v, top int) int {
	if v <= 0 || top <= 0 {
		return 0
	}
	i := 1 + (v*(len(shades)-1)-1)/top
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return i
}

// Heatmap writes a group × weekday table of minutes, Monday first, shaded
// by magnitude.
func Heatmap(w io.Writer, rows []analytics.HeatmapRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  no data"))
		return
	}
	width, top := 5, 0
	for _, r := range rows {
		if len(r.Group) > width {
			width = len(r.Group)
		}
		for _, m := range r.Minutes {
			if m > top {
				top = m
			}
		}
	}

	fmt.Fprintf(w, "  %s", padRight("", width))
	for _, d := range timecalc.Week {
		fmt.Fprintf(w, " %6s", d.String()[:3])
	}
	fmt.Fprintln(w)

	for _, r := range rows {
		fmt.Fprintf(w, "  %s", padRight(r.Group, width))
		for _, m := range r.Minutes {
			cell := fmt.Sprintf(" %6d", m)
			fmt.Fprint(w, shades[Shade(m, top)].Sprint(cell))
		}
		fmt.Fprintln(w)
	}
}
