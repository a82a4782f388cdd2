package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer or today's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	active, err := a.svc.ActiveTimer(ctx, actor)
	exitOn(err)
	if active != nil {
		elapsed := int64(now.Sub(active.StartedAt).Seconds())
		fmt.Println("Running:")
		fmt.Printf("  Activity: %s\n", active.Activity)
		fmt.Printf("  Since: %s\n", active.StartedAt.Local().Format(timecalc.ClockLayout))
		fmt.Printf("  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
		return nil
	}

	total, err := a.svc.TodayMinutes(ctx, actor)
	exitOn(err)
	fmt.Println("No active timer.")
	fmt.Printf("Today: %s logged.\n", timecalc.FormatMinutes(total))
	return nil
}
