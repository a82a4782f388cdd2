package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// scopeFlags are the --user/--all pair shared by the read commands.
type scopeFlags struct {
	user string
	all  bool
}

func (f *scopeFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.user, "user", "", "Read another user's entries (admins only)")
	c.Flags().BoolVar(&f.all, "all", false, "Read all users' entries (admins only)")
}

func (f scopeFlags) scope() service.Scope {
	return service.Scope{UserID: f.user, All: f.all}
}

// rangeFlags are the --from/--to pair.
type rangeFlags struct {
	from string
	to   string
}

func (f *rangeFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD)")
	c.Flags().StringVar(&f.to, "to", "", "End date (YYYY-MM-DD)")
}

// parse returns the bounds; an unset bound is the zero time. It exits with
// status 1 on a malformed date.
func (f rangeFlags) parse() (time.Time, time.Time) {
	from := optionalDate("from", f.from)
	to := optionalDate("to", f.to)
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		fmt.Fprintln(os.Stderr, "--to must not be before --from")
		os.Exit(1)
	}
	return from, to
}

func optionalDate(flag, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	d, err := timecalc.ParseDate(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --%s value: %v\n", flag, err)
		os.Exit(1)
	}
	return d
}

// dateOrToday parses a --date flag, defaulting to today.
func dateOrToday(value string) time.Time {
	if value == "" {
		return timecalc.DateOf(time.Now())
	}
	return optionalDate("date", value)
}
