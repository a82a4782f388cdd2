// Package service holds the business rules around stored entries: who may
// see and change what, entry validation, user administration and the
// running timer.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
)

var (
	// ErrForbidden is returned when the acting user lacks the role for an
	// operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidEntry is returned for entries missing a time or activity.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrUnknownUser is returned when the acting user does not exist.
	ErrUnknownUser = errors.New("unknown user")
)

// Scope selects whose entries an operation reads.
type Scope struct {
	// UserID selects one user. Empty with All unset means the actor.
	UserID string
	All    bool
}

func (s Scope) String() string {
	if s.All {
		return "all users"
	}
	return s.UserID
}

// Options configures a Service.
type Options struct {
	// SuperAdmin is the user who approves admin requests and cannot be
	// removed.
	SuperAdmin string
	// PhotoDir is where profile photos are copied.
	PhotoDir string
	Logger   *zap.Logger
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Service wires the repositories to the analytics engine.
type Service struct {
	db      *gorm.DB
	entries *storage.EntryRepository
	users   *storage.UserRepository
	timers  *storage.TimerRepository
	engine  *analytics.Engine

	superAdmin string
	photoDir   string
	log        *zap.Logger
	now        func() time.Time
}

func New(db *gorm.DB, engine *analytics.Engine, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		db:         db,
		entries:    storage.NewEntryRepository(db),
		users:      storage.NewUserRepository(db),
		timers:     storage.NewTimerRepository(db),
		engine:     engine,
		superAdmin: opts.SuperAdmin,
		photoDir:   opts.PhotoDir,
		log:        opts.Logger,
		now:        opts.Now,
	}
}

// Engine returns the analytics engine used for resolution.
func (s *Service) Engine() *analytics.Engine {
	return s.engine
}

// Entries exposes the entry repository for bulk tooling such as imports.
func (s *Service) Entries() *storage.EntryRepository {
	return s.entries
}

// Actor loads the acting user.
func (s *Service) Actor(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: no user given", ErrUnknownUser)
	}
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w %q", ErrUnknownUser, id)
	}
	return u, err
}

// IsAdmin reports whether u may act on other users' data.
func (s *Service) IsAdmin(u *model.User) bool {
	return u.IsAdmin() || s.isSuperAdmin(u)
}

func (s *Service) isSuperAdmin(u *model.User) bool {
	return u != nil && s.superAdmin != "" && u.ID == s.superAdmin
}

// Authorize narrows a requested scope to what actor may read. Admins get
// what they ask for; everyone else only ever sees their own entries.
func (s *Service) Authorize(actor *model.User, req Scope) (Scope, error) {
	if req.UserID == "" && !req.All {
		return Scope{UserID: actor.ID}, nil
	}
	if s.IsAdmin(actor) {
		if req.All {
			return Scope{All: true}, nil
		}
		return Scope{UserID: req.UserID}, nil
	}
	if req.All || req.UserID != actor.ID {
		return Scope{}, fmt.Errorf("%w: %s may only read their own entries", ErrForbidden, actor.ID)
	}
	return Scope{UserID: actor.ID}, nil
}

func (s *Service) canModify(actor *model.User, owner string) error {
	if owner == actor.ID || s.IsAdmin(actor) {
		return nil
	}
	return fmt.Errorf("%w: entry belongs to %s", ErrForbidden, owner)
}
