package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/activity-log/internal/legacy"
	"github.com/Tiliavir/activity-log/internal/storage"
)

var (
	importDSN      string
	importUsers    string
	importRange    rangeFlags
	importDryRun   bool
	importAttempts uint
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import data from other sources",
}

var importLegacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Import the time_log table of the old Postgres deployment",
	Long: `Copy rows of the old time_log table, and optionally the users of a
users.json file, into the local database. Rows already present with the
same date, time, activity and user are skipped, so the import can be re-run.`,
	Example: `  alog import legacy --dsn postgres://me@localhost/timelog --users users.json`,
	Args:    cobra.NoArgs,
	RunE:    runImportLegacy,
}

func init() {
	importLegacyCmd.Flags().StringVar(&importDSN, "dsn", os.Getenv("ALOG_LEGACY_DSN"), "Postgres connection string (default $ALOG_LEGACY_DSN)")
	importLegacyCmd.Flags().StringVar(&importUsers, "users", "", "users.json file to import before the entries")
	importRange.register(importLegacyCmd)
	importLegacyCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print planned operations without writing")
	importLegacyCmd.Flags().UintVar(&importAttempts, "attempts", 5, "Connection attempts before giving up")
	importCmd.AddCommand(importLegacyCmd)
}

func runImportLegacy(cmd *cobra.Command, args []string) error {
	if importDSN == "" && importUsers == "" {
		fmt.Fprintln(os.Stderr, "--dsn or --users is required")
		os.Exit(1)
	}
	from, to := importRange.parse()

	a := mustOpen("")
	defer a.Close()

	ctx := context.Background()
	opts := legacy.Options{From: from, To: to, DryRun: importDryRun, Out: os.Stdout}

	dryTag := ""
	if importDryRun {
		dryTag = " [dry-run]"
	}

	var total legacy.Result
	if importUsers != "" {
		users, err := legacy.ReadUsers(importUsers)
		exitOn(err)
		fmt.Printf("Importing users from %s%s...\n", importUsers, dryTag)
		res, err := legacy.SyncUsers(ctx, users, storage.NewUserRepository(a.db), opts)
		exitOn(err)
		total = sumResults(total, res)
		fmt.Println()
	}

	if importDSN != "" {
		src, err := legacy.OpenPostgres(ctx, importDSN, legacy.ConnectOptions{
			Attempts: importAttempts,
			Delay:    time.Second,
			Logger:   a.log,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Connecting to the legacy database failed: %v\n", err)
			os.Exit(2)
		}
		defer src.Close()

		fmt.Printf("Importing time_log (%s)%s...\n", windowLabel(from, to), dryTag)
		res, err := legacy.Sync(ctx, src, a.svc.Entries(), opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import error: %v\n", err)
			os.Exit(2)
		}
		total = sumResults(total, res)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", total.Imported)
	fmt.Printf("  %d skipped\n", total.Skipped)
	if total.Errors > 0 {
		fmt.Printf("  %d errors\n", total.Errors)
		os.Exit(2)
	}
	return nil
}

func sumResults(a, b legacy.Result) legacy.Result {
	return legacy.Result{
		Imported: a.Imported + b.Imported,
		Skipped:  a.Skipped + b.Skipped,
		Errors:   a.Errors + b.Errors,
	}
}
