package model

import "time"

// LogEntry is one recorded activity as the user typed it. Time and Activity
// are free text; nothing derived from them is stored.
type LogEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      time.Time `gorm:"index:idx_entry_user_date,priority:2" json:"date"`
	Time      string    `json:"time"`
	Activity  string    `gorm:"column:what_i_did" json:"what_i_did"`
	UserID    string    `gorm:"index:idx_entry_user_date,priority:1" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResolvedEntry is a LogEntry with its read-time projections. Minutes == 0
// means the entry is excluded from aggregation.
type ResolvedEntry struct {
	LogEntry
	Minutes int    `json:"duration_minutes"`
	Group   string `json:"activity_group"`
}

// Counted reports whether the entry takes part in aggregation.
func (e ResolvedEntry) Counted() bool {
	return e.Minutes > 0
}
