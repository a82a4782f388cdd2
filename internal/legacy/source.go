// Package legacy imports data from the original Postgres-backed deployment:
// the time_log table and the users.json side file.
package legacy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Row is one time_log record as stored by the old deployment.
type Row struct {
	Date     string
	Time     string
	WhatIDid string
	UserID   string
}

// Source yields legacy rows, optionally limited to [from, to]. Zero bounds
// are open.
type Source interface {
	Rows(ctx context.Context, from, to time.Time) ([]Row, error)
}

// PostgresSource reads time_log through the pgx database/sql driver.
type PostgresSource struct {
	db *sql.DB
}

// ConnectOptions tunes the connection retry.
type ConnectOptions struct {
	Attempts uint
	Delay    time.Duration
	Logger   *zap.Logger
}

// OpenPostgres connects to dsn, retrying the initial ping with jittered
// backoff. Databases on a laptop or a sleeping container often need a few
// seconds before they accept connections.
func OpenPostgres(ctx context.Context, dsn string, opts ConnectOptions) (*PostgresSource, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	if opts.Attempts == 0 {
		opts.Attempts = 5
	}
	if opts.Delay == 0 {
		opts.Delay = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			opts.Logger.Debug("retrying postgres connection", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresSource{db: db}, nil
}

// Rows reads time_log ordered by date and time. Columns are read as text so
// both DATE and TEXT schemas work.
func (s *PostgresSource) Rows(ctx context.Context, from, to time.Time) ([]Row, error) {
	var (
		where []string
		args  []interface{}
	)
	if !from.IsZero() {
		args = append(args, from.Format("2006-01-02"))
		where = append(where, fmt.Sprintf("date::date >= $%d::date", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to.Format("2006-01-02"))
		where = append(where, fmt.Sprintf("date::date <= $%d::date", len(args)))
	}
	q := `SELECT date::text, COALESCE(time::text, ''), COALESCE(what_i_did, ''), COALESCE(user_id::text, '') FROM time_log`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY date, time"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query time_log: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Date, &r.Time, &r.WhatIDid, &r.UserID); err != nil {
			return nil, fmt.Errorf("scan time_log: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read time_log: %w", err)
	}
	return out, nil
}

func (s *PostgresSource) Close() error {
	return s.db.Close()
}

// UserRecord is one entry of the old users.json file. Password hashes are
// read but never imported.
type UserRecord struct {
	ID             string `json:"id"`
	Password       string `json:"password"`
	CreatedAt      string `json:"created_at"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Photo          string `json:"photo"`
	AdminRequested bool   `json:"admin_requested"`
}

// ReadUsers parses a users.json file.
func ReadUsers(path string) ([]UserRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var users []UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return users, nil
}
