package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	editDate     string
	editTime     string
	editActivity string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the date, time or activity of an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id...>",
	Aliases: []string{"rm"},
	Short:   "Delete entries",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

func init() {
	editCmd.Flags().StringVar(&editDate, "date", "", "New date (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editTime, "time", "", "New time text")
	editCmd.Flags().StringVar(&editActivity, "what", "", "New activity")
}

func runEdit(cmd *cobra.Command, args []string) error {
	date := optionalDate("date", editDate)
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	e, err := a.svc.GetEntry(ctx, actor, args[0])
	exitOn(err)

	in := service.EntryInput{Date: e.Date, Time: e.Time, Activity: e.Activity}
	if !date.IsZero() {
		in.Date = date
	}
	if editTime != "" {
		in.Time = editTime
	}
	if editActivity != "" {
		in.Activity = editActivity
	}

	e, err = a.svc.UpdateEntry(ctx, actor, e.ID, in)
	exitOn(err)
	fmt.Printf("Updated %s  %s  %s  (%s)\n", e.Date.Format(timecalc.DateLayout), e.Time, e.Activity, e.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	failed := 0
	for _, id := range args {
		if err := a.svc.DeleteEntry(ctx, actor, id); err != nil {
			fmt.Printf("  ! Error deleting %s: %v\n", id, err)
			failed++
			continue
		}
		fmt.Printf("  ✓ Deleted: %s\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d entries could not be deleted", failed, len(args))
	}
	return nil
}
