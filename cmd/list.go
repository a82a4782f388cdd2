package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	listToday  bool
	listWeek   bool
	listSearch string
	listRange  rangeFlags
	listScope  scopeFlags
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List log entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Only entries whose activity or time contains this text")
	listRange.register(listCmd)
	listScope.register(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	from, to := listRange.parse()
	switch {
	case listWeek:
		from, to = timecalc.WeekRange(now)
		from, to = timecalc.DateOf(from), timecalc.DateOf(to)
	case listToday:
		from = timecalc.DateOf(now)
		to = from
	}

	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	entries, err := a.svc.ResolveEntries(ctx, actor, listScope.scope(), service.Query{From: from, To: to, Search: listSearch})
	exitOn(err)

	printList(entries, listScope.all)
	return nil
}

// printList groups entries by date and prints them.
func printList(entries []model.ResolvedEntry, withUser bool) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}

	var currentDay string
	for _, e := range entries {
		day := e.Date.Format(timecalc.DateLayout)
		if day != currentDay {
			fmt.Println(day)
			currentDay = day
		}

		dur := "–"
		if e.Counted() {
			dur = timecalc.FormatMinutes(e.Minutes)
		}
		owner := ""
		if withUser {
			owner = "  @" + e.UserID
		}
		fmt.Printf("  %-13s %-30s %-12s %8s  %s%s\n", e.Time, e.Activity, e.Group, dur, e.ID, owner)
	}
}
