package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// ErrNoTimer is returned by StopTimer when nothing is running.
var ErrNoTimer = errors.New("no active timer")

// StartTimer starts timing activity for the actor. A timer that is already
// running is stopped first and its entry returned.
func (s *Service) StartTimer(ctx context.Context, actor *model.User, activity string) (*model.Timer, *model.LogEntry, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return nil, nil, fmt.Errorf("%w: activity is required", ErrInvalidEntry)
	}

	var previous *model.LogEntry
	if _, err := s.timers.Active(ctx, actor.ID); err == nil {
		previous, _, err = s.StopTimer(ctx, actor)
		if err != nil {
			return nil, nil, err
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}

	t := &model.Timer{UserID: actor.ID, Activity: activity, StartedAt: s.now()}
	if err := s.timers.Start(ctx, t); err != nil {
		return nil, nil, err
	}
	s.log.Debug("timer started", zap.String("user", actor.ID), zap.String("activity", activity))
	return t, previous, nil
}

// StopTimer closes the running timer into a log entry dated on the start
// day with an "HH:MM-HH:MM" time text. Removing the timer and writing the
// entry commit together, so a failed write leaves the timer running.
func (s *Service) StopTimer(ctx context.Context, actor *model.User) (*model.LogEntry, time.Duration, error) {
	var (
		e       *model.LogEntry
		elapsed time.Duration
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := storage.NewTimerRepository(tx).Stop(ctx, actor.ID)
		if err != nil {
			return err
		}

		now := s.now()
		start := t.StartedAt.In(now.Location())
		elapsed = now.Sub(start)
		e = &model.LogEntry{
			Date:     timecalc.DateOf(start),
			Time:     timecalc.TimeRange(start, now),
			Activity: t.Activity,
			UserID:   actor.ID,
		}
		return storage.NewEntryRepository(tx).Create(ctx, e)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, 0, ErrNoTimer
	}
	if err != nil {
		return nil, 0, err
	}

	if elapsed >= 24*time.Hour {
		s.log.Warn("timer ran for more than a day, time text wraps",
			zap.String("user", actor.ID), zap.Duration("elapsed", elapsed))
	}
	return e, elapsed, nil
}

// ActiveTimer returns the actor's running timer, or nil.
func (s *Service) ActiveTimer(ctx context.Context, actor *model.User) (*model.Timer, error) {
	t, err := s.timers.Active(ctx, actor.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// TodayMinutes resolves the actor's entries of today and sums the counted
// minutes.
func (s *Service) TodayMinutes(ctx context.Context, actor *model.User) (int, error) {
	today := timecalc.DateOf(s.now())
	entries, err := s.entries.List(ctx, storage.Filter{UserID: actor.ID, From: today, To: today})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		total += s.engine.Minutes(e.Time, e.Activity)
	}
	return total, nil
}
