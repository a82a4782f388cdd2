package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/storage"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// errBadRequest marks malformed parameters.
var errBadRequest = errors.New("bad request")

// entryView is the JSON form of an entry.
type entryView struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	WhatIDid string `json:"what_i_did"`
	UserID   string `json:"user_id"`
	Minutes  *int   `json:"duration_minutes,omitempty"`
	Group    string `json:"activity_group,omitempty"`
}

type entryRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	WhatIDid string `json:"what_i_did"`
	UserID   string `json:"user_id"`
}

func viewOf(e model.LogEntry) entryView {
	return entryView{
		ID:       e.ID,
		Date:     e.Date.Format(timecalc.DateLayout),
		Time:     e.Time,
		WhatIDid: e.Activity,
		UserID:   e.UserID,
	}
}

func resolvedViewOf(e model.ResolvedEntry) entryView {
	v := viewOf(e.LogEntry)
	m := e.Minutes
	v.Minutes = &m
	v.Group = e.Group
	return v
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) actor(r *http.Request) (*model.User, error) {
	return s.svc.Actor(r.Context(), r.Header.Get(UserHeader))
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scope := scopeOf(r)
	q, err := queryOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entries, err := s.svc.ResolveEntries(r.Context(), actor, scope, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = resolvedViewOf(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.svc.GetEntry(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*e))
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := decodeEntry(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.svc.AddEntry(r.Context(), actor, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.entries.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusCreated, viewOf(*e))
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := decodeEntry(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.svc.UpdateEntry(r.Context(), actor, mux.Vars(r)["id"], in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.entries.WithLabelValues("update").Inc()
	writeJSON(w, http.StatusOK, viewOf(*e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.DeleteEntry(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.entries.WithLabelValues("delete").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q, err := queryOf(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := analytics.Options{TrendGroup: r.URL.Query().Get("trend")}
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n <= 0 {
			s.fail(w, r, fmt.Errorf("%w: top must be a positive integer", errBadRequest))
			return
		}
		opts.TopN = n
	}
	d, err := s.svc.Dashboard(r.Context(), actor, scopeOf(r), q.From, q.To, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) day(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		date, err = timecalc.ParseDate(v)
		if err != nil {
			s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
	}
	slices, err := s.svc.Day(r.Context(), actor, scopeOf(r), date)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, slices)
}

func scopeOf(r *http.Request) service.Scope {
	q := r.URL.Query()
	all, _ := strconv.ParseBool(q.Get("all"))
	return service.Scope{UserID: q.Get("user"), All: all}
}

func queryOf(r *http.Request) (service.Query, error) {
	v := r.URL.Query()
	q := service.Query{Search: v.Get("search")}
	var err error
	if s := v.Get("from"); s != "" {
		if q.From, err = timecalc.ParseDate(s); err != nil {
			return q, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	if s := v.Get("to"); s != "" {
		if q.To, err = timecalc.ParseDate(s); err != nil {
			return q, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}
	return q, nil
}

func decodeEntry(r *http.Request) (service.EntryInput, error) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return service.EntryInput{}, fmt.Errorf("%w: invalid json", errBadRequest)
	}
	d, err := timecalc.ParseDate(req.Date)
	if err != nil {
		return service.EntryInput{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return service.EntryInput{Date: d, Time: req.Time, Activity: req.WhatIDid, UserID: req.UserID}, nil
}

// statusOf maps service and storage errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, service.ErrInvalidEntry):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUnknownUser):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.log.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("code", code), zap.Error(err))
	}
	writeError(w, code, err)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
