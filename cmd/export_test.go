package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/Tiliavir/activity-log/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrintCSV(t *testing.T) {
	entries := []model.ResolvedEntry{
		{
			LogEntry: model.LogEntry{
				ID:       "e1",
				Date:     time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
				Time:     "10:00-11:00",
				Activity: "python, course",
				UserID:   "alice",
			},
			Minutes: 60,
			Group:   "Python",
		},
	}
	var buf bytes.Buffer
	printCSV(&buf, entries)
	want := "id,date,time,what_i_did,user_id,duration_minutes,activity_group\n" +
		"e1,2026-02-02,10:00-11:00,\"python, course\",alice,60,Python\n"
	if buf.String() != want {
		t.Errorf("printCSV = %q, want %q", buf.String(), want)
	}
}
