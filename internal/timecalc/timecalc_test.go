package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/activity-log/internal/timecalc"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{61, "1h 1m"},
		{90, "1h 30m"},
		{960, "16h 0m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatMinutes(tt.minutes)
		if got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}

	// Sundays belong to the week that started six days earlier.
	sun := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	monday, _ = timecalc.WeekRange(sun)
	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange(sunday) monday = %v, want %v", monday, wantMonday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestWeekIndex(t *testing.T) {
	for i, d := range timecalc.Week {
		if got := timecalc.WeekIndex(d); got != i {
			t.Errorf("WeekIndex(%s) = %d, want %d", d, got, i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := timecalc.ParseDate("2026-02-27")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := timecalc.ParseDate("27.02.2026"); err == nil {
		t.Error("expected error for non ISO date")
	}
}

func TestTimeRange(t *testing.T) {
	start := time.Date(2026, 2, 27, 23, 30, 0, 0, time.UTC)
	end := time.Date(2026, 2, 28, 0, 15, 0, 0, time.UTC)
	if got := timecalc.TimeRange(start, end); got != "23:30-00:15" {
		t.Errorf("TimeRange = %q, want %q", got, "23:30-00:15")
	}
}
