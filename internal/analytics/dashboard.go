package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/activity-log/internal/grouping"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// Options tunes a dashboard.
type Options struct {
	// TopN limits the top-groups chart. Zero means 10.
	TopN int
	// TrendGroup is the group whose per-day trend is reported. Empty means
	// "Python".
	TrendGroup string
}

// Dashboard bundles every aggregate shown for one scope and window.
type Dashboard struct {
	TotalEntries int          `json:"total_entries"`
	UniqueUsers  int          `json:"unique_users"`
	Days         int          `json:"days"`
	Groups       []Total      `json:"groups"`
	Users        []Total      `json:"users"`
	Daily        []DayTotal   `json:"daily"`
	Weekday      [7]int       `json:"weekday"`
	Heatmap      []HeatmapRow `json:"heatmap"`
	Averages     []Average    `json:"averages"`
	Top          []Total      `json:"top"`
	TrendGroup   string       `json:"trend_group"`
	Trend        []DayTotal   `json:"trend"`
	Persona      string       `json:"persona,omitempty"`
}

// Dashboard builds the full dashboard for entries. Entry and user counts
// cover every entry passed in; the aggregates cover only the ones kept by
// Analyze.
func (e *Engine) Dashboard(entries []model.LogEntry, opts Options) Dashboard {
	if opts.TopN == 0 {
		opts.TopN = 10
	}
	if opts.TrendGroup == "" {
		opts.TrendGroup = "Python"
	}

	users := map[string]struct{}{}
	for _, le := range entries {
		users[le.UserID] = struct{}{}
	}

	resolved := e.Analyze(entries)
	groups := TotalsByGroup(resolved)
	return Dashboard{
		TotalEntries: len(entries),
		UniqueUsers:  len(users),
		Days:         DistinctDays(resolved),
		Groups:       groups,
		Users:        TotalsByUser(resolved),
		Daily:        TotalsByDay(resolved),
		Weekday:      TotalsByWeekday(resolved),
		Heatmap:      Heatmap(resolved, e.rules.HeatmapFixedMinutes),
		Averages:     AveragePerDay(resolved, e.rules.KeyActivities),
		Top:          TopGroups(resolved, opts.TopN),
		TrendGroup:   opts.TrendGroup,
		Trend:        GroupTrend(resolved, opts.TrendGroup),
		Persona:      Persona(groups),
	}
}

// Persona messages.
const (
	PersonaWorker  = "businessman! (Homework more than Play or Watch)"
	PersonaSlacker = "🚽 Toilet Cleaner! (Watched/Played more than anything)"
	PersonaGlutton = "🤪 Idiot! (Ate more than slept)"
)

// Persona summarizes group totals in one line. The first matching rule
// wins: homework at least as large as both watch and play, then watch or
// play being the largest group, then eating above sleep. It returns "" when
// there is no data or no rule matches.
func Persona(groups []Total) string {
	if len(groups) == 0 {
		return ""
	}
	byLabel := map[string]int{}
	top := 0
	for _, g := range groups {
		byLabel[g.Label] = g.Minutes
		if g.Minutes > top {
			top = g.Minutes
		}
	}
	homework, watch, play := byLabel[grouping.Homework], byLabel["Watch"], byLabel["Play"]
	switch {
	case homework >= watch && homework >= play:
		return PersonaWorker
	case watch == top || play == top:
		return PersonaSlacker
	case byLabel[grouping.Eating] > byLabel[grouping.Sleep]:
		return PersonaGlutton
	}
	return ""
}

// Slice is one labelled share of a single-day breakdown.
type Slice struct {
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
}

// DayBreakdown returns the time spent on date, one slice per distinct
// "activity (time)" label, ordered by label. Entries on other days and
// entries with zero minutes are ignored. No grouping is applied.
func (e *Engine) DayBreakdown(entries []model.LogEntry, date time.Time) []Slice {
	sums := map[string]int{}
	for _, le := range entries {
		if !timecalc.SameDay(le.Date, date) {
			continue
		}
		mins := e.resolver.Minutes(le.Time, le.Activity)
		if mins == 0 {
			continue
		}
		sums[fmt.Sprintf("%s (%s)", le.Activity, le.Time)] += mins
	}
	out := make([]Slice, 0, len(sums))
	for l, m := range sums {
		out = append(out, Slice{Label: l, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
