package model

import "time"

// Timer is a running activity that becomes a LogEntry when stopped.
type Timer struct {
	UserID    string    `gorm:"primaryKey"`
	Activity  string
	StartedAt time.Time
}
