package timecalc

import (
	"strings"
	"time"

	"github.com/Tiliavir/activity-log/internal/rules"
)

const minutesPerDay = 24 * 60

// Resolver turns a free-text time range into minutes. The zero result is a
// sentinel meaning "exclude from aggregation".
type Resolver struct {
	rules rules.Table
}

// NewResolver returns a Resolver using the given rule table.
func NewResolver(t rules.Table) *Resolver {
	return &Resolver{rules: t}
}

// Minutes resolves the duration of one log entry. It never fails: any text it
// cannot make sense of yields 0.
//
// "HH:MM-HH:MM" ranges are measured start to end, wrapping past midnight at
// most once. Ranges longer than the ceiling (12h, or 16h for sleep) are
// rejected. Texts without a dash get a fixed fallback.
func (r *Resolver) Minutes(timeText, activity string) int {
	sleep := r.isSleep(timeText, activity)

	startText, endText, ok := strings.Cut(timeText, "-")
	if !ok {
		if sleep {
			return r.rules.FallbackSleepMinutes
		}
		return r.rules.FallbackMinutes
	}

	start, err := ParseClock(startText)
	if err != nil {
		return 0
	}
	end, err := ParseClock(endText)
	if err != nil {
		return 0
	}
	if end <= start {
		end += minutesPerDay
	}

	d := end - start
	limit := r.rules.MaxMinutes
	if sleep {
		limit = r.rules.MaxSleepMinutes
	}
	if d <= 0 || d > limit {
		return 0
	}
	return d
}

func (r *Resolver) isSleep(timeText, activity string) bool {
	if r.rules.SleepMatch == rules.MatchTimeText {
		return r.rules.IsSleep(timeText)
	}
	return r.rules.IsSleep(activity)
}

// clockParseLayout accepts one or two digits for both hour and minute,
// so "9:5" reads as 09:05.
const clockParseLayout = "15:4"

// ParseClock parses a 24-hour "H:M" time of day, one or two digits per
// field and surrounding whitespace allowed, and returns minutes since
// midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockParseLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
