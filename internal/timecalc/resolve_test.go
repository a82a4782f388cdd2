package timecalc_test

import (
	"testing"

	"github.com/Tiliavir/activity-log/internal/rules"
	"github.com/Tiliavir/activity-log/internal/timecalc"
)

func TestResolverMinutes(t *testing.T) {
	r := timecalc.NewResolver(rules.Default())

	tests := []struct {
		name     string
		timeText string
		activity string
		want     int
	}{
		{"simple range", "07:30-08:00", "breakfast", 30},
		{"single digit hour", "7:30-8:15", "walk", 45},
		{"single digit end minute", "10:00-11:5", "coding", 65},
		{"single digit start fields", "9:5-10:05", "coding", 60},
		{"spaces around parts", " 09:00 - 10:30 ", "coding", 90},
		{"overnight", "23:30-00:15", "watch tv", 45},
		{"equal ends wrap a full day", "10:00-10:00", "x", 0},
		{"non sleep ceiling inclusive", "08:00-20:00", "work", 720},
		{"non sleep over ceiling", "08:00-20:01", "work", 0},
		{"sleep ceiling inclusive", "22:00-14:00", "slept", 960},
		{"sleep over ceiling", "22:00-14:01", "slept", 0},
		{"sleep long night", "22:00-07:00", "sleeping", 540},
		{"no dash sleep fallback", "anything without dash", "slept well", 540},
		{"no dash fallback", "whatever", "played games", 5},
		{"empty time text", "", "played games", 5},
		{"out of range clock", "25:99-26:00", "x", 0},
		{"missing colon", "0730-0800", "x", 0},
		{"letters", "ab:cd-ef:gh", "x", 0},
		{"second dash", "10:00-11:00-12:00", "x", 0},
		{"dangling dash", "10:00-", "x", 0},
		{"seconds rejected", "10:00:00-11:00:00", "x", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Minutes(tt.timeText, tt.activity)
			if got != tt.want {
				t.Errorf("Minutes(%q, %q) = %d, want %d", tt.timeText, tt.activity, got, tt.want)
			}
		})
	}
}

func TestResolverExactDifference(t *testing.T) {
	r := timecalc.NewResolver(rules.Default())
	for start := 0; start < 24*60; start += 37 {
		for _, d := range []int{1, 59, 300, 720} {
			end := start + d
			if end >= 24*60 {
				continue
			}
			text := clock(start) + "-" + clock(end)
			if got := r.Minutes(text, "reading"); got != d {
				t.Fatalf("Minutes(%q) = %d, want %d", text, got, d)
			}
		}
	}
}

func TestResolverSleepMatchTarget(t *testing.T) {
	legacy := rules.Default()
	legacy.SleepMatch = rules.MatchTimeText
	lr := timecalc.NewResolver(legacy)
	ar := timecalc.NewResolver(rules.Default())

	// Keyword only in the activity: counted as sleep only when matching activities.
	if got := ar.Minutes("22:00-11:00", "slept"); got != 780 {
		t.Errorf("activity match: got %d, want 780", got)
	}
	if got := lr.Minutes("22:00-11:00", "slept"); got != 0 {
		t.Errorf("time-text match: got %d, want 0 (12h ceiling applies)", got)
	}

	// Keyword only in the time text: the legacy mode sees it.
	if got := lr.Minutes("bed", "anything"); got != 540 {
		t.Errorf("time-text match fallback: got %d, want 540", got)
	}
	if got := ar.Minutes("bed", "anything"); got != 5 {
		t.Errorf("activity match fallback: got %d, want 5", got)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"7:05", 425, false},
		{"7:5", 425, false},
		{"11:5", 665, false},
		{"12:123", 0, true},
		{"123:00", 0, true},
		{" 12:30 ", 750, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := timecalc.ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func clock(m int) string {
	const digits = "0123456789"
	h, mm := m/60, m%60
	return string([]byte{digits[h/10], digits[h%10], ':', digits[mm/10], digits[mm%10]})
}
