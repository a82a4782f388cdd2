// Package rules holds the keyword and stopword tables used to derive
// durations and activity groups from free-text log entries.
//
// Tables are plain values passed into the resolver and the grouper, so a
// rule change can be tested and versioned without touching either algorithm.
package rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// SleepMatch selects which text the sleep keywords are matched against when
// resolving durations.
type SleepMatch string

const (
	// MatchActivity checks the activity description.
	MatchActivity SleepMatch = "activity"
	// MatchTimeText checks the time-range text. Older databases were
	// aggregated this way, so it is kept for reproducing historical charts.
	MatchTimeText SleepMatch = "time"
)

// Version of the built-in table.
const Version = "v1"

// Table is one versioned set of classification rules.
type Table struct {
	Version string `koanf:"version"`

	SleepKeywords  []string   `koanf:"sleep_keywords"`
	EatingKeywords []string   `koanf:"eating_keywords"`
	SchoolKeywords []string   `koanf:"school_keywords"`
	HomeworkTokens []string   `koanf:"homework_tokens"`
	Stopwords      []string   `koanf:"stopwords"`
	EatingMarker   string     `koanf:"eating_marker"`
	SleepMatch     SleepMatch `koanf:"sleep_match"`

	// DroppedActivities are removed from dashboard analytics when the
	// trimmed, lowercased activity equals one of them.
	DroppedActivities []string `koanf:"dropped_activities"`
	// KeyActivities are the groups reported in the per-day averages table.
	KeyActivities []string `koanf:"key_activities"`
	// HeatmapFixedMinutes replaces the resolved duration of every entry in the
	// named group when building the weekday heatmap.
	HeatmapFixedMinutes map[string]int `koanf:"heatmap_fixed_minutes"`

	MaxMinutes           int `koanf:"max_minutes"`
	MaxSleepMinutes      int `koanf:"max_sleep_minutes"`
	FallbackMinutes      int `koanf:"fallback_minutes"`
	FallbackSleepMinutes int `koanf:"fallback_sleep_minutes"`
}

// Default returns the built-in rule table.
func Default() Table {
	return Table{
		Version:        Version,
		SleepKeywords:  []string{"sleep", "slept", "sleeping", "i was sleeping", "nap", "bed", "rest"},
		EatingKeywords: []string{"eat", "breakfast", "lunch", "dinner", "snack", "food", "meal"},
		SchoolKeywords: []string{"track", "field", "school"},
		HomeworkTokens: []string{"home"},
		EatingMarker:   "ate",
		SleepMatch:     MatchActivity,
		Stopwords: []string{
			"i", "to", "the", "a", "an", "and", "of", "in", "on", "for", "with", "at", "by",
			"from", "up", "about", "into", "over", "after", "is", "it", "my", "me", "do",
			"did", "am", "are", "was", "were", "be", "been", "being", "have", "has", "had",
			"will", "would", "can", "could", "should", "shall", "may", "might", "must",
			"that", "this", "these", "those", "as", "but", "if", "or", "because", "so",
			"just", "not", "no", "yes", "you", "your", "we", "our", "us", "they", "their",
			"them", "he", "she", "his", "her", "him", "its", "who", "whom", "which", "what",
			"when", "where", "why", "how",
		},
		DroppedActivities:    []string{"ate"},
		KeyActivities:        []string{"Sleep", "Eating", "Watch", "Homework", "Play"},
		HeatmapFixedMinutes:  map[string]int{"Bath": 5, "Eating": 60},
		MaxMinutes:           720,
		MaxSleepMinutes:      960,
		FallbackMinutes:      5,
		FallbackSleepMinutes: 540,
	}
}

// Load overlays the YAML file at path on the default table. An empty path
// returns the defaults unchanged.
func Load(path string) (Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading rules file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML rule data on the default table. Lists and maps present
// in the YAML replace the defaults as a whole.
func Parse(data []byte) (Table, error) {
	t := Default()
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return t, fmt.Errorf("parsing rules: %w", err)
	}
	var o Table
	if err := k.Unmarshal("", &o); err != nil {
		return t, fmt.Errorf("decoding rules: %w", err)
	}
	t.overlay(o, k)
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t *Table) overlay(o Table, k *koanf.Koanf) {
	if o.Version != "" {
		t.Version = o.Version
	}
	lists := []struct {
		key string
		dst *[]string
		src []string
	}{
		{"sleep_keywords", &t.SleepKeywords, o.SleepKeywords},
		{"eating_keywords", &t.EatingKeywords, o.EatingKeywords},
		{"school_keywords", &t.SchoolKeywords, o.SchoolKeywords},
		{"homework_tokens", &t.HomeworkTokens, o.HomeworkTokens},
		{"stopwords", &t.Stopwords, o.Stopwords},
		{"dropped_activities", &t.DroppedActivities, o.DroppedActivities},
		{"key_activities", &t.KeyActivities, o.KeyActivities},
	}
	for _, l := range lists {
		if k.Exists(l.key) {
			*l.dst = l.src
		}
	}
	if k.Exists("eating_marker") {
		t.EatingMarker = o.EatingMarker
	}
	if o.SleepMatch != "" {
		t.SleepMatch = o.SleepMatch
	}
	if k.Exists("heatmap_fixed_minutes") {
		t.HeatmapFixedMinutes = o.HeatmapFixedMinutes
	}
	for _, n := range []struct {
		key string
		dst *int
		src int
	}{
		{"max_minutes", &t.MaxMinutes, o.MaxMinutes},
		{"max_sleep_minutes", &t.MaxSleepMinutes, o.MaxSleepMinutes},
		{"fallback_minutes", &t.FallbackMinutes, o.FallbackMinutes},
		{"fallback_sleep_minutes", &t.FallbackSleepMinutes, o.FallbackSleepMinutes},
	} {
		if k.Exists(n.key) {
			*n.dst = n.src
		}
	}
}

// Validate reports tables that cannot be used.
func (t Table) Validate() error {
	switch t.SleepMatch {
	case MatchActivity, MatchTimeText:
	default:
		return fmt.Errorf("rules %s: unknown sleep_match %q (want %q or %q)", t.Version, t.SleepMatch, MatchActivity, MatchTimeText)
	}
	if t.MaxMinutes <= 0 || t.MaxSleepMinutes <= 0 {
		return fmt.Errorf("rules %s: duration ceilings must be positive", t.Version)
	}
	return nil
}

// IsSleep reports whether text contains one of the sleep keywords.
func (t Table) IsSleep(text string) bool {
	return containsAny(strings.ToLower(text), t.SleepKeywords)
}

// IsEating reports whether text contains one of the eating keywords.
func (t Table) IsEating(text string) bool {
	return containsAny(strings.ToLower(text), t.EatingKeywords)
}

// IsDropped reports whether an activity is excluded from analytics.
func (t Table) IsDropped(activity string) bool {
	a := strings.ToLower(strings.TrimSpace(activity))
	for _, d := range t.DroppedActivities {
		if a == strings.ToLower(d) {
			return true
		}
	}
	return false
}

// StopwordSet returns the stopwords as a lookup set.
func (t Table) StopwordSet() map[string]struct{} {
	return toSet(t.Stopwords)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
