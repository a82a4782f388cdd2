package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/model"
)

// Filter narrows an entry listing. Zero values mean "no restriction".
type Filter struct {
	// UserID limits results to one user; empty means every user.
	UserID string
	From   time.Time
	To     time.Time
	// Search is a case-insensitive substring of the activity or time text.
	Search string
}

// EntryRepository handles CRUD for log entries.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create stores e, assigning an ID when it has none.
func (r *EntryRepository) Create(ctx context.Context, e *model.LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Get(ctx context.Context, id string) (*model.LogEntry, error) {
	var e model.LogEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, notFound(err))
	}
	return &e, nil
}

// Update rewrites the editable columns of an existing entry.
func (r *EntryRepository) Update(ctx context.Context, e *model.LogEntry) error {
	res := r.db.WithContext(ctx).Model(&model.LogEntry{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"date":       e.Date,
		"time":       e.Time,
		"what_i_did": e.Activity,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("update entry %s: %w", e.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update entry %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LogEntry{})
	if res.Error != nil {
		return fmt.Errorf("delete entry %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByUser removes every entry owned by userID and returns how many.
func (r *EntryRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.LogEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete entries of %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

// List returns the entries matching f ordered by date, then time text, then
// insertion.
func (r *EntryRepository) List(ctx context.Context, f Filter) ([]model.LogEntry, error) {
	q := r.db.WithContext(ctx).Model(&model.LogEntry{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date <= ?", f.To)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(`(LOWER(what_i_did) LIKE ? ESCAPE '\' OR LOWER(time) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var entries []model.LogEntry
	if err := q.Order("date ASC, time ASC, created_at ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Exists reports whether an entry with the same date, time text, activity
// and owner is already stored.
func (r *EntryRepository) Exists(ctx context.Context, e model.LogEntry) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LogEntry{}).
		Where("date = ? AND time = ? AND what_i_did = ? AND user_id = ?", e.Date, e.Time, e.Activity, e.UserID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("find entry: %w", err)
	}
	return n > 0, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
