package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// EntryInput is the editable part of a log entry.
type EntryInput struct {
	Date     time.Time
	Time     string
	Activity string
	// UserID is the owner. Empty means the actor.
	UserID string
}

// Query narrows a listing inside a scope.
type Query struct {
	From   time.Time
	To     time.Time
	Search string
}

func (in EntryInput) validate() (EntryInput, error) {
	in.Time = strings.TrimSpace(in.Time)
	in.Activity = strings.TrimSpace(in.Activity)
	if in.Time == "" || in.Activity == "" {
		return in, fmt.Errorf("%w: time and activity are required", ErrInvalidEntry)
	}
	if in.Date.IsZero() {
		return in, fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	in.Date = timecalc.DateOf(in.Date)
	return in, nil
}

// AddEntry stores a new entry owned by in.UserID or the actor.
func (s *Service) AddEntry(ctx context.Context, actor *model.User, in EntryInput) (*model.LogEntry, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	if in.UserID == "" {
		in.UserID = actor.ID
	}
	if err := s.canModify(actor, in.UserID); err != nil {
		return nil, err
	}

	e := &model.LogEntry{Date: in.Date, Time: in.Time, Activity: in.Activity, UserID: in.UserID}
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Debug("entry added", zap.String("id", e.ID), zap.String("user", e.UserID))
	return e, nil
}

// GetEntry returns one entry the actor may see.
func (s *Service) GetEntry(ctx context.Context, actor *model.User, id string) (*model.LogEntry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.canModify(actor, e.UserID); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntry replaces date, time and activity of an entry. The owner
// never changes.
func (s *Service) UpdateEntry(ctx context.Context, actor *model.User, id string, in EntryInput) (*model.LogEntry, error) {
	e, err := s.GetEntry(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in, err = in.validate()
	if err != nil {
		return nil, err
	}
	e.Date, e.Time, e.Activity = in.Date, in.Time, in.Activity
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	s.log.Debug("entry updated", zap.String("id", e.ID))
	return e, nil
}

func (s *Service) DeleteEntry(ctx context.Context, actor *model.User, id string) error {
	if _, err := s.GetEntry(ctx, actor, id); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("entry deleted", zap.String("id", id))
	return nil
}

// ListEntries returns the raw entries of a scope.
func (s *Service) ListEntries(ctx context.Context, actor *model.User, req Scope, q Query) ([]model.LogEntry, error) {
	scope, err := s.Authorize(actor, req)
	if err != nil {
		return nil, err
	}
	f := storage.Filter{From: q.From, To: q.To, Search: q.Search}
	if !scope.All {
		f.UserID = scope.UserID
	}
	return s.entries.List(ctx, f)
}

// ResolveEntries lists a scope and resolves it as one batch, so groups are
// relative to exactly the listed entries.
func (s *Service) ResolveEntries(ctx context.Context, actor *model.User, req Scope, q Query) ([]model.ResolvedEntry, error) {
	entries, err := s.ListEntries(ctx, actor, req, q)
	if err != nil {
		return nil, err
	}
	return s.engine.Resolve(entries), nil
}

// Dashboard aggregates a scope over [from, to].
func (s *Service) Dashboard(ctx context.Context, actor *model.User, req Scope, from, to time.Time, opts analytics.Options) (analytics.Dashboard, error) {
	entries, err := s.ListEntries(ctx, actor, req, Query{From: from, To: to})
	if err != nil {
		return analytics.Dashboard{}, err
	}
	s.log.Debug("dashboard", zap.Int("entries", len(entries)), zap.Stringer("scope", req))
	return s.engine.Dashboard(entries, opts), nil
}

// Day returns the single-day breakdown of a scope.
func (s *Service) Day(ctx context.Context, actor *model.User, req Scope, date time.Time) ([]analytics.Slice, error) {
	d := timecalc.DateOf(date)
	entries, err := s.ListEntries(ctx, actor, req, Query{From: d, To: d})
	if err != nil {
		return nil, err
	}
	return s.engine.DayBreakdown(entries, d), nil
}
