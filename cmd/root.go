package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/config"
	"github.com/Tiliavir/activity-log/internal/logging"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/storage"
)

var (
	configPath string
	actingUser string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "alog",
	Short: "alog – a free-text activity log with a dashboard",
	Long: `alog records what you did as free text ("python course", "10:00-11:30")
and derives durations and activity groups from it when reading.
Data is stored in a SQLite database under ~/.alog/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.alog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&actingUser, "as", "", "Acting user ID (default users.default from the config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
}

// app is everything a command needs once the config is loaded.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	db   *gorm.DB
	svc  *service.Service
	base string
}

// openApp loads the config, opens the database and builds the service.
// format overrides log.format when the config leaves it empty.
func openApp(format string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Format != "" {
		format = cfg.Log.Format
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	log, err := logging.New(level, format, os.Stderr)
	if err != nil {
		return nil, err
	}

	base, err := storage.BaseDir()
	if err != nil {
		return nil, err
	}
	table, err := cfg.RuleTable()
	if err != nil {
		return nil, err
	}
	dbPath := cfg.DBPath(base)
	db, err := storage.NewDB(dbPath, log)
	if err != nil {
		return nil, err
	}
	log.Debug("opened database", zap.String("path", dbPath), zap.String("rules", table.Version))

	svc := service.New(db, analytics.NewEngine(table), service.Options{
		SuperAdmin: cfg.Users.SuperAdmin,
		PhotoDir:   cfg.PhotoDir(base),
		Logger:     log,
	})
	return &app{cfg: cfg, log: log, db: db, svc: svc, base: base}, nil
}

func (a *app) Close() {
	if err := storage.Close(a.db); err != nil {
		a.log.Warn("closing database", zap.Error(err))
	}
	_ = a.log.Sync()
}

// actor resolves --as, falling back to users.default.
func (a *app) actor(ctx context.Context) (*model.User, error) {
	id := actingUser
	if id == "" {
		id = a.cfg.Users.Default
	}
	if id == "" {
		return nil, fmt.Errorf("%w: pass --as <user> or set users.default in %s", service.ErrUnknownUser, a.configFile())
	}
	return a.svc.Actor(ctx, id)
}

func (a *app) configFile() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(a.base, "config.yaml")
}

// mustOpen opens the app or exits with status 2.
func mustOpen(format string) *app {
	a, err := openApp(format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return a
}

// exitCode maps an error to the process status: 1 for anything the user can
// fix by changing the invocation, 2 for storage and other failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvalidEntry),
		errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrNoTimer),
		errors.Is(err, storage.ErrNotFound):
		return 1
	}
	return 2
}

// exitOn prints err and exits with its status. A nil err is a no-op.
func exitOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}
