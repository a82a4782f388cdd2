package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	reportWeek   bool
	reportDate   string
	reportFormat string
	reportScope  scopeFlags
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time per activity group for one week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Report the week containing this date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
	reportScope.register(reportCmd)
}

// weekReport is the JSON form of a report.
type weekReport struct {
	Week         string        `json:"week"`
	From         string        `json:"from"`
	To           string        `json:"to"`
	Groups       []groupMinute `json:"groups"`
	TotalMinutes int           `json:"total_minutes"`
}

type groupMinute struct {
	Group   string `json:"group"`
	Minutes int    `json:"duration_minutes"`
	Entries int    `json:"entries"`
}

func runReport(cmd *cobra.Command, args []string) error {
	switch reportFormat {
	case "md", "csv", "json":
	default:
		fmt.Fprintf(os.Stderr, "unknown --format %q (want md, csv or json)\n", reportFormat)
		os.Exit(1)
	}
	day := time.Now()
	if reportDate != "" {
		day = optionalDate("date", reportDate)
	}
	monday, sunday := timecalc.WeekRange(day)
	from, to := timecalc.DateOf(monday), timecalc.DateOf(sunday)

	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	entries, err := a.svc.ListEntries(ctx, actor, reportScope.scope(), service.Query{From: from, To: to})
	exitOn(err)
	totals := analytics.TotalsByGroup(a.svc.Engine().Analyze(entries))

	r := buildReport(timecalc.ISOWeekLabel(from), from, to, totals)
	return writeReport(os.Stdout, r, reportFormat)
}

func buildReport(label string, from, to time.Time, totals []analytics.Total) weekReport {
	r := weekReport{
		Week:   label,
		From:   from.Format(timecalc.DateLayout),
		To:     to.Format(timecalc.DateLayout),
		Groups: make([]groupMinute, 0, len(totals)),
	}
	for _, t := range totals {
		r.Groups = append(r.Groups, groupMinute{Group: t.Label, Minutes: t.Minutes, Entries: t.Count})
		r.TotalMinutes += t.Minutes
	}
	return r
}

func writeReport(w io.Writer, r weekReport, format string) error {
	switch format {
	case "csv":
		fmt.Fprintln(w, "group,duration_minutes,entries")
		for _, g := range r.Groups {
			fmt.Fprintf(w, "%s,%d,%d\n", csvEscape(g.Group), g.Minutes, g.Entries)
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default: // md
		fmt.Fprintf(w, "Week %s (%s → %s)\n", r.Week, r.From, r.To)
		fmt.Fprintln(w, "--------------------------------")
		for _, g := range r.Groups {
			fmt.Fprintf(w, "%-20s%s\n", g.Group, timecalc.FormatMinutes(g.Minutes))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatMinutes(r.TotalMinutes))
	}
	return nil
}
