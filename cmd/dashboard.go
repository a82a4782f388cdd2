package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/render"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	dashRange rangeFlags
	dashScope scopeFlags
	dashTrend string
	dashTop   int
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the activity dashboard",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func init() {
	dashRange.register(dashboardCmd)
	dashScope.register(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashTrend, "trend", "Python", "Group whose per-day trend is shown")
	dashboardCmd.Flags().IntVar(&dashTop, "top", 10, "Number of groups in the top chart")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	from, to := dashRange.parse()
	if dashTop <= 0 {
		fmt.Fprintln(os.Stderr, "--top must be positive")
		os.Exit(1)
	}

	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	d, err := a.svc.Dashboard(ctx, actor, dashScope.scope(), from, to, analytics.Options{TopN: dashTop, TrendGroup: dashTrend})
	exitOn(err)

	who := dashScope.scope().String()
	if who == "" {
		who = actor.ID
	}
	fmt.Printf("Dashboard %s (%s)\n\n", windowLabel(from, to), who)
	if d.TotalEntries == 0 {
		fmt.Println("No entries found.")
		return nil
	}
	render.Dashboard(os.Stdout, d, dashScope.all)
	return nil
}

// windowLabel renders a from/to pair with open bounds spelled out.
func windowLabel(from, to time.Time) string {
	f, t := "beginning", "today"
	if !from.IsZero() {
		f = from.Format(timecalc.DateLayout)
	}
	if !to.IsZero() {
		t = to.Format(timecalc.DateLayout)
	}
	return f + " → " + t
}
