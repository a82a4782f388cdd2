package legacy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// Result holds counters for an import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   int
}

// Options configures an import run.
type Options struct {
	From   time.Time
	To     time.Time
	DryRun bool
	// Out receives one progress line per record. Nil discards them.
	Out io.Writer
}

// EntryStore is the part of the entry repository an import needs.
type EntryStore interface {
	Exists(ctx context.Context, e model.LogEntry) (bool, error)
	Create(ctx context.Context, e *model.LogEntry) error
}

// UserStore is the part of the user repository an import needs.
type UserStore interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// MapRow converts a legacy row into a log entry. Time and activity texts are
// kept verbatim; durations and groups are derived from them at read time.
func MapRow(r Row) (model.LogEntry, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return model.LogEntry{}, errors.New("row has no user_id")
	}
	ds := strings.TrimSpace(r.Date)
	if len(ds) > len(timecalc.DateLayout) {
		ds = ds[:len(timecalc.DateLayout)]
	}
	d, err := timecalc.ParseDate(ds)
	if err != nil {
		return model.LogEntry{}, err
	}
	return model.LogEntry{
		Date:     d,
		Time:     r.Time,
		Activity: r.WhatIDid,
		UserID:   strings.TrimSpace(r.UserID),
	}, nil
}

// Sync copies time_log rows from src into store. A row whose date, time,
// activity and user already exist is skipped, so running it twice imports
// nothing new. Per-row failures are counted and do not stop the run.
func Sync(ctx context.Context, src Source, store EntryStore, opts Options) (Result, error) {
	var result Result
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	rows, err := src.Rows(ctx, opts.From, opts.To)
	if err != nil {
		return result, err
	}

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		label := fmt.Sprintf("%s %s %q (%s)", r.Date, r.Time, r.WhatIDid, r.UserID)

		entry, err := MapRow(r)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping %s: %v\n", label, err)
			result.Errors++
			continue
		}

		exists, err := store.Exists(ctx, entry)
		if err != nil {
			fmt.Fprintf(out, "  ! Error checking %s: %v\n", label, err)
			result.Errors++
			continue
		}
		if exists {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", label)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := store.Create(ctx, &entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %s: %v\n", label, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: %s\n", label)
		result.Imported++
	}
	return result, nil
}

// SyncUsers creates the users of a users.json file that do not exist yet.
// Roles, status, admin requests and photo paths are carried over.
func SyncUsers(ctx context.Context, users []UserRecord, store UserStore, opts Options) (Result, error) {
	var result Result
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, rec := range users {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			fmt.Fprintln(out, "  ! Error: user without id")
			result.Errors++
			continue
		}
		_, err := store.Get(ctx, id)
		switch {
		case err == nil:
			fmt.Fprintf(out, "  – Skipped:  user %s (already exists)\n", id)
			result.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			fmt.Fprintf(out, "  ! Error checking user %s: %v\n", id, err)
			result.Errors++
			continue
		}

		u := &model.User{
			ID:             id,
			FullName:       rec.FullName,
			Email:          rec.Email,
			Role:           model.RoleUser,
			Status:         model.StatusActive,
			AdminRequested: rec.AdminRequested,
			PhotoPath:      rec.Photo,
		}
		if rec.Role == model.RoleAdmin {
			u.Role = model.RoleAdmin
		}
		if rec.Status != "" {
			u.Status = rec.Status
		}
		if t, err := time.Parse(time.RFC3339Nano, rec.CreatedAt); err == nil {
			u.CreatedAt = t
		} else if t, err := time.Parse("2006-01-02T15:04:05.999999", rec.CreatedAt); err == nil {
			u.CreatedAt = t
		}

		if !opts.DryRun {
			if err := store.Create(ctx, u); err != nil {
				fmt.Fprintf(out, "  ! Error saving user %s: %v\n", id, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: user %s (%s)\n", id, u.Role)
		result.Imported++
	}
	return result, nil
}
