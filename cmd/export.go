package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

var (
	exportFormat string
	exportRange  rangeFlags
	exportScope  scopeFlags
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export resolved log entries to stdout",
	Long: `Export entries with their derived duration and activity group.
Without --from/--to the current week is exported.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportRange.register(exportCmd)
	exportScope.register(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	from, to := exportRange.parse()
	if exportRange.from == "" && exportRange.to == "" {
		monday, sunday := timecalc.WeekRange(time.Now())
		from, to = timecalc.DateOf(monday), timecalc.DateOf(sunday)
	}

	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	actor, err := a.actor(ctx)
	exitOn(err)

	entries, err := a.svc.ResolveEntries(ctx, actor, exportScope.scope(), service.Query{From: from, To: to})
	exitOn(err)

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printList(entries, exportScope.all)
	default: // csv
		printCSV(os.Stdout, entries)
	}
	return nil
}

func printCSV(w io.Writer, entries []model.ResolvedEntry) {
	fmt.Fprintln(w, "id,date,time,what_i_did,user_id,duration_minutes,activity_group")
	for _, e := range entries {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%s\n",
			e.ID,
			e.Date.Format(timecalc.DateLayout),
			csvEscape(e.Time),
			csvEscape(e.Activity),
			csvEscape(e.UserID),
			e.Minutes,
			csvEscape(e.Group),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
