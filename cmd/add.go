package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	addDate string
	addUser string
)

var addCmd = &cobra.Command{
	Use:   "add <time> <activity...>",
	Short: "Log an activity",
	Long: `Log what you did. The time is free text: a range like "10:00-11:30"
is measured, anything else counts as a short fixed duration.`,
	Example: `  alog add 10:00-11:30 python course
  alog add --date 2026-02-01 22:30-07:00 sleep`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "Date of the entry (YYYY-MM-DD); defaults to today")
	addCmd.Flags().StringVar(&addUser, "user", "", "Owner of the entry (admins only)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	date := dateOrToday(addDate)
	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	e, err := a.svc.AddEntry(ctx, actor, service.EntryInput{
		Date:     date,
		Time:     args[0],
		Activity: strings.Join(args[1:], " "),
		UserID:   addUser,
	})
	exitOn(err)

	fmt.Printf("Added %s  %s  %s  (%s)\n", e.Date.Format(timecalc.DateLayout), e.Time, e.Activity, e.ID)
	if m := a.svc.Engine().Minutes(e.Time, e.Activity); m == 0 {
		fmt.Println("Note: the time text does not resolve to a duration; the entry is not counted in totals.")
	}
	return nil
}
