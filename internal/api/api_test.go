package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/activity-log/internal/analytics"
	"github.com/Tiliavir/activity-log/internal/api"
	"github.com/Tiliavir/activity-log/internal/rules"
	"github.com/Tiliavir/activity-log/internal/service"
	"github.com/Tiliavir/activity-log/internal/storage"
)

type entryJSON struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	WhatIDid string `json:"what_i_did"`
	UserID   string `json:"user_id"`
	Minutes  *int   `json:"duration_minutes"`
	Group    string `json:"activity_group"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "alog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close(db) })

	svc := service.New(db, analytics.NewEngine(rules.Default()), service.Options{SuperAdmin: "goat"})
	ctx := context.Background()
	for _, id := range []string{"goat", "alice", "bob"} {
		_, err := svc.Register(ctx, service.UserInput{ID: id})
		require.NoError(t, err)
	}

	ts := httptest.NewServer(api.NewServer(svc, nil, nil).Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, user string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(api.UserHeader, user)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func entryBody(date, tm, what string) map[string]string {
	return map[string]string{"date": date, "time": tm, "what_i_did": what}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestEntryLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", "python course"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entryJSON
	decode(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.UserID)
	assert.Equal(t, "2026-02-02", created.Date)

	resp = do(t, ts, "GET", "/api/entries", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []entryJSON
	decode(t, resp, &list)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Minutes)
	assert.Equal(t, 60, *list[0].Minutes)
	assert.Equal(t, "Course", list[0].Group)

	resp = do(t, ts, "PUT", "/api/entries/"+created.ID, "alice", entryBody("2026-02-03", "10:00-10:30", "python practice"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated entryJSON
	decode(t, resp, &updated)
	assert.Equal(t, "2026-02-03", updated.Date)
	assert.Equal(t, "python practice", updated.WhatIDid)

	resp = do(t, ts, "DELETE", "/api/entries/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, ts, "GET", "/api/entries/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", "reading"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e entryJSON
	decode(t, resp, &e)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		want   int
	}{
		{"no user", "GET", "/api/entries", "", nil, http.StatusForbidden},
		{"unknown user", "GET", "/api/entries", "mallory", nil, http.StatusForbidden},
		{"other user scope", "GET", "/api/entries?user=alice", "bob", nil, http.StatusForbidden},
		{"edit foreign entry", "PUT", "/api/entries/" + e.ID, "bob", entryBody("2026-02-02", "1", "x"), http.StatusForbidden},
		{"missing activity", "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", " "), http.StatusBadRequest},
		{"bad date", "POST", "/api/entries", "alice", entryBody("02/02/2026", "10:00-11:00", "x"), http.StatusBadRequest},
		{"bad from", "GET", "/api/dashboard?from=yesterday", "alice", nil, http.StatusBadRequest},
		{"bad top", "GET", "/api/dashboard?top=-1", "alice", nil, http.StatusBadRequest},
		{"missing entry", "DELETE", "/api/entries/nope", "alice", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)

			var body map[string]string
			decode(t, resp, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestInvalidJSON(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest("POST", ts.URL+"/api/entries", strings.NewReader("{"))
	require.NoError(t, err)
	req.Header.Set(api.UserHeader, "alice")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminSeesAll(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", "python course"))
	do(t, ts, "POST", "/api/entries", "bob", entryBody("2026-02-02", "12:00-12:30", "python practice"))

	resp := do(t, ts, "GET", "/api/entries?all=true", "goat", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []entryJSON
	decode(t, resp, &list)
	require.Len(t, list, 2)
	for _, e := range list {
		assert.Equal(t, "Python", e.Group)
	}

	resp = do(t, ts, "GET", "/api/entries?all=true", "bob", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDashboardAndDay(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", "python course"))
	do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "12:00", "ate"))
	do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-03", "22:00-06:00", "sleep"))

	resp := do(t, ts, "GET", "/api/dashboard?from=2026-02-01&to=2026-02-28", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d analytics.Dashboard
	decode(t, resp, &d)
	assert.Equal(t, 3, d.TotalEntries)
	assert.Equal(t, 1, d.UniqueUsers)
	assert.Equal(t, 2, d.Days)
	require.NotEmpty(t, d.Groups)
	assert.Equal(t, analytics.Total{Label: "Sleep", Minutes: 480, Count: 1}, d.Groups[0])

	resp = do(t, ts, "GET", "/api/day?date=2026-02-02", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var slices []analytics.Slice
	decode(t, resp, &slices)
	assert.Equal(t, []analytics.Slice{
		{Label: "ate (12:00)", Minutes: 5},
		{Label: "python course (10:00-11:00)", Minutes: 60},
	}, slices)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, "POST", "/api/entries", "alice", entryBody("2026-02-02", "10:00-11:00", "reading"))
	do(t, ts, "GET", "/api/health", "", nil)

	resp := do(t, ts, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(b)
	assert.Contains(t, body, `alog_entries_written_total{op="create"} 1`)
	assert.Contains(t, body, `alog_http_requests_total{code="200",method="GET",route="/api/health"} 1`)
}
