package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/activity-log/internal/api"
	"github.com/Tiliavir/activity-log/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve entries and dashboards as a JSON API",
	Long: `Run the HTTP API. The acting user of each request is read from the
X-Alog-User header. Prometheus metrics are served at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default server.addr from the config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a := mustOpen(logging.FormatJSON)
	defer a.Close()

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)
	srv := api.NewServer(a.svc, a.log.Named("api"), api.NewMetrics())
	if err := api.ListenAndServe(ctx, addr, srv.Router(), a.log); err != nil {
		a.log.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
