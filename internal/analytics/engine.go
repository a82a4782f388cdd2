// Package analytics turns stored log entries into resolved entries and the
// aggregates behind every chart.
//
// Resolution is a read-time projection: durations and groups are computed
// from the raw text on every call and never stored. Groups depend on the
// whole batch passed in, so callers must pass exactly the entries of the
// scope and window being shown.
package analytics

import (
	"github.com/Tiliavir/activity-log/internal/grouping"
	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/rules"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

// Engine resolves entries against one rule table.
type Engine struct {
	rules    rules.Table
	resolver *timecalc.Resolver
}

func NewEngine(t rules.Table) *Engine {
	return &Engine{rules: t, resolver: timecalc.NewResolver(t)}
}

// Rules returns the table the engine was built with.
func (e *Engine) Rules() rules.Table {
	return e.rules
}

// Minutes resolves a single duration. It needs no batch.
func (e *Engine) Minutes(timeText, activity string) int {
	return e.resolver.Minutes(timeText, activity)
}

// Resolve computes duration and group for every entry. The grouping batch is
// the set of activity texts of entries, zero-duration ones included.
func (e *Engine) Resolve(entries []model.LogEntry) []model.ResolvedEntry {
	batch := make([]string, len(entries))
	for i, le := range entries {
		batch[i] = le.Activity
	}
	idx := grouping.NewIndex(e.rules, batch)

	out := make([]model.ResolvedEntry, len(entries))
	for i, le := range entries {
		out[i] = model.ResolvedEntry{
			LogEntry: le,
			Minutes:  e.resolver.Minutes(le.Time, le.Activity),
			Group:    idx.Group(le.Activity),
		}
	}
	return out
}

// Analyze is Resolve after removing dropped activities. The removed entries
// take no part in grouping either.
func (e *Engine) Analyze(entries []model.LogEntry) []model.ResolvedEntry {
	kept := make([]model.LogEntry, 0, len(entries))
	for _, le := range entries {
		if !e.rules.IsDropped(le.Activity) {
			kept = append(kept, le)
		}
	}
	return e.Resolve(kept)
}
