package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/render"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	dayDate  string
	dayScope scopeFlags
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show where the time of one day went",
	Args:  cobra.NoArgs,
	RunE:  runDay,
}

func init() {
	dayCmd.Flags().StringVar(&dayDate, "date", "", "Day to show (YYYY-MM-DD); defaults to today")
	dayScope.register(dayCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	date := dateOrToday(dayDate)
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	slices, err := a.svc.Day(ctx, actor, dayScope.scope(), date)
	exitOn(err)

	render.Title(os.Stdout, "Time spent on "+date.Format("Mon, Jan 02 2006"))
	if len(slices) == 0 {
		fmt.Println("No entries with a duration on this day.")
		return nil
	}
	render.Slices(os.Stdout, slices)

	total := 0
	for _, s := range slices {
		total += s.Minutes
	}
	fmt.Printf("\nTotal: %s logged.\n", timecalc.FormatMinutes(total))
	return nil
}
