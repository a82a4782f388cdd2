// Package api serves entries and dashboards over HTTP as JSON.
//
// The acting user is taken from the X-Alog-User header; authorization is
// the same role check the CLI applies.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Tiliavir/activity-log/internal/service"
)

// UserHeader carries the acting user ID.
const UserHeader = "X-Alog-User"

// Server holds the HTTP handlers.
type Server struct {
	svc     *service.Service
	log     *zap.Logger
	metrics *Metrics
}

func NewServer(svc *service.Service, log *zap.Logger, metrics *Metrics) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{svc: svc, log: log, metrics: metrics}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	root := mux.NewRouter()
	root.Use(s.recover)
	root.Use(s.metrics.Middleware)

	root.HandleFunc("/api/health", s.health).Methods("GET")
	root.HandleFunc("/api/entries", s.listEntries).Methods("GET")
	root.HandleFunc("/api/entries", s.createEntry).Methods("POST")
	root.HandleFunc("/api/entries/{id}", s.getEntry).Methods("GET")
	root.HandleFunc("/api/entries/{id}", s.updateEntry).Methods("PUT")
	root.HandleFunc("/api/entries/{id}", s.deleteEntry).Methods("DELETE")
	root.HandleFunc("/api/dashboard", s.dashboard).Methods("GET")
	root.HandleFunc("/api/day", s.day).Methods("GET")
	root.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	return root
}

func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Error("panic in handler", zap.Any("panic", v), zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
