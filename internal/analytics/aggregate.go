package analytics

import (
	"sort"
	"time"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// Total is the summed duration and entry count of one label.
type Total struct {
	Label   string `json:"label"`
	Minutes int    `json:"minutes"`
	Count   int    `json:"count"`
}

// DayTotal is the summed duration of one calendar day.
type DayTotal struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// HeatmapRow holds one group's minutes per weekday, Monday first.
type HeatmapRow struct {
	Group   string `json:"group"`
	Minutes [7]int `json:"minutes"`
}

// Average is a group's total divided by the number of days in the window.
type Average struct {
	Label   string  `json:"label"`
	Minutes float64 `json:"minutes"`
}

// Every aggregate below skips entries with zero minutes.

// TotalsByGroup sums minutes per activity group, largest first.
func TotalsByGroup(entries []model.ResolvedEntry) []Total {
	return totalsBy(entries, func(e model.ResolvedEntry) string { return e.Group })
}

// TotalsByUser sums minutes and counts entries per user, largest first.
func TotalsByUser(entries []model.ResolvedEntry) []Total {
	return totalsBy(entries, func(e model.ResolvedEntry) string { return e.UserID })
}

func totalsBy(entries []model.ResolvedEntry, key func(model.ResolvedEntry) string) []Total {
	byKey := map[string]*Total{}
	for _, e := range entries {
		if !e.Counted() {
			continue
		}
		k := key(e)
		t, ok := byKey[k]
		if !ok {
			t = &Total{Label: k}
			byKey[k] = t
		}
		t.Minutes += e.Minutes
		t.Count++
	}
	out := make([]Total, 0, len(byKey))
	for _, t := range byKey {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// TotalsByDay sums minutes per calendar day, oldest first. Days without
// counted entries are omitted.
func TotalsByDay(entries []model.ResolvedEntry) []DayTotal {
	byDay := map[time.Time]int{}
	for _, e := range entries {
		if e.Counted() {
			byDay[timecalc.DateOf(e.Date)] += e.Minutes
		}
	}
	out := make([]DayTotal, 0, len(byDay))
	for d, m := range byDay {
		out = append(out, DayTotal{Date: d, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// TotalsByWeekday sums minutes per weekday, Monday first. Weekdays without
// data are zero.
func TotalsByWeekday(entries []model.ResolvedEntry) [7]int {
	var out [7]int
	for _, e := range entries {
		if e.Counted() {
			out[timecalc.WeekIndex(e.Date.Weekday())] += e.Minutes
		}
	}
	return out
}

// Heatmap sums minutes per group and weekday. Entries of a group listed in
// fixed count as that many minutes instead of their resolved duration.
// Rows are sorted by group label.
func Heatmap(entries []model.ResolvedEntry, fixed map[string]int) []HeatmapRow {
	rows := map[string]*HeatmapRow{}
	for _, e := range entries {
		if !e.Counted() {
			continue
		}
		m := e.Minutes
		if f, ok := fixed[e.Group]; ok {
			m = f
		}
		r, ok := rows[e.Group]
		if !ok {
			r = &HeatmapRow{Group: e.Group}
			rows[e.Group] = r
		}
		r.Minutes[timecalc.WeekIndex(e.Date.Weekday())] += m
	}
	out := make([]HeatmapRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// DistinctDays counts the calendar days that have any entry, counted or not.
func DistinctDays(entries []model.ResolvedEntry) int {
	days := map[time.Time]struct{}{}
	for _, e := range entries {
		days[timecalc.DateOf(e.Date)] = struct{}{}
	}
	return len(days)
}

// AveragePerDay returns, for each label, its group total divided by the
// number of distinct days in entries. Labels without data average zero.
func AveragePerDay(entries []model.ResolvedEntry, labels []string) []Average {
	days := DistinctDays(entries)
	totals := map[string]int{}
	for _, t := range TotalsByGroup(entries) {
		totals[t.Label] = t.Minutes
	}
	out := make([]Average, len(labels))
	for i, l := range labels {
		out[i] = Average{Label: l}
		if days > 0 {
			out[i].Minutes = float64(totals[l]) / float64(days)
		}
	}
	return out
}

// TopGroups returns at most n groups with the most minutes.
func TopGroups(entries []model.ResolvedEntry, n int) []Total {
	all := TotalsByGroup(entries)
	if n >= 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// GroupTrend returns per-day minutes of one group, oldest first.
func GroupTrend(entries []model.ResolvedEntry, group string) []DayTotal {
	var only []model.ResolvedEntry
	for _, e := range entries {
		if e.Group == group {
			only = append(only, e)
		}
	}
	return TotalsByDay(only)
}

// EntriesOfGroup returns the counted entries of one group ordered by date
// and time text.
func EntriesOfGroup(entries []model.ResolvedEntry, group string) []model.ResolvedEntry {
	var out []model.ResolvedEntry
	for _, e := range entries {
		if e.Group == group && e.Counted() {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out
}
