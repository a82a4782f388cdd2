package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var startCmd = &cobra.Command{
	Use:   "start <activity...>",
	Short: "Start timing an activity",
	Long: `Start a timer. alog stop turns it into a log entry with an
"HH:MM-HH:MM" time text. A running timer is stopped first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	activity := strings.Join(args, " ")
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	t, previous, err := a.svc.StartTimer(ctx, actor, activity)
	exitOn(err)
	if previous != nil {
		fmt.Fprintf(os.Stderr, "Warning: auto-stopped active timer for %q (%s)\n", previous.Activity, previous.Time)
	}

	fmt.Printf("Started timer for %q at %s\n", t.Activity, t.StartedAt.Format(timecalc.ClockLayout))
	return nil
}
