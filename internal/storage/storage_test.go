package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Tiliavir/activity-log/internal/model"
	"github.com/Tiliavir/activity-log/internal/storage"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.NewDB(filepath.Join(t.TempDir(), "data", "alog.db"), nil)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close(db) })
	return db
}

func day(d int) time.Time {
	return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDBCreatesDirectories(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "nested", "dir", "alog.db")
	db, err := storage.NewDB(path, nil)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer storage.Close(db)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestCreateAndGetEntry(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewEntryRepository(openDB(t))

	e := &model.LogEntry{Date: day(27), Time: "08:00-09:30", Activity: "python course", UserID: "alice"}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID == "" {
		t.Fatal("Create did not assign an ID")
	}

	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Activity != "python course" || got.Time != "08:00-09:30" || got.UserID != "alice" {
		t.Errorf("Get = %+v", got)
	}
	if !got.Date.Equal(day(27)) {
		t.Errorf("Date = %v, want %v", got.Date, day(27))
	}
}

func TestGetMissingEntry(t *testing.T) {
	repo := storage.NewEntryRepository(openDB(t))
	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateEntry(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewEntryRepository(openDB(t))

	e := &model.LogEntry{Date: day(27), Time: "08:00-09:00", Activity: "read", UserID: "alice"}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatal(err)
	}

	e.Activity = "read novel"
	e.Time = "08:00-10:00"
	if err := repo.Update(ctx, e); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.Get(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Activity != "read novel" || got.Time != "08:00-10:00" {
		t.Errorf("after Update = %+v", got)
	}

	missing := &model.LogEntry{ID: "nope", Date: day(27)}
	if err := repo.Update(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Update missing: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewEntryRepository(openDB(t))

	e := &model.LogEntry{Date: day(27), Time: "08:00-09:00", Activity: "read", UserID: "alice"}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewEntryRepository(openDB(t))

	seed := []model.LogEntry{
		{Date: day(3), Time: "10:00-11:00", Activity: "Watch movie", UserID: "alice"},
		{Date: day(1), Time: "08:00-09:00", Activity: "python course", UserID: "alice"},
		{Date: day(2), Time: "21:00-22:00", Activity: "watch youtube", UserID: "bob"},
		{Date: day(2), Time: "07:00-07:30", Activity: "100% done", UserID: "bob"},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter storage.Filter
		want   []string
	}{
		{"all ordered by date and time", storage.Filter{}, []string{"python course", "100% done", "watch youtube", "Watch movie"}},
		{"one user", storage.Filter{UserID: "alice"}, []string{"python course", "Watch movie"}},
		{"date range", storage.Filter{From: day(2), To: day(2)}, []string{"100% done", "watch youtube"}},
		{"search activity", storage.Filter{Search: "WATCH"}, []string{"watch youtube", "Watch movie"}},
		{"search time", storage.Filter{Search: "21:00"}, []string{"watch youtube"}},
		{"search is literal", storage.Filter{Search: "%"}, []string{"100% done"}},
		{"combined", storage.Filter{UserID: "alice", Search: "watch"}, []string{"Watch movie"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List returned %d entries, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Activity != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, e.Activity, tt.want[i])
				}
			}
		})
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewEntryRepository(openDB(t))

	e := model.LogEntry{Date: day(5), Time: "08:00-09:00", Activity: "swim", UserID: "alice"}
	if ok, err := repo.Exists(ctx, e); err != nil || ok {
		t.Fatalf("Exists before create = %v, %v", ok, err)
	}
	if err := repo.Create(ctx, &e); err != nil {
		t.Fatal(err)
	}
	if ok, err := repo.Exists(ctx, model.LogEntry{Date: day(5), Time: "08:00-09:00", Activity: "swim", UserID: "alice"}); err != nil || !ok {
		t.Errorf("Exists after create = %v, %v", ok, err)
	}
	if ok, _ := repo.Exists(ctx, model.LogEntry{Date: day(5), Time: "08:00-09:00", Activity: "swim", UserID: "bob"}); ok {
		t.Error("Exists matched another user's entry")
	}
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	users := storage.NewUserRepository(db)
	entries := storage.NewEntryRepository(db)
	timers := storage.NewTimerRepository(db)

	for _, id := range []string{"alice", "bob"} {
		if err := users.Create(ctx, &model.User{ID: id, Role: model.RoleUser, Status: model.StatusActive}); err != nil {
			t.Fatal(err)
		}
		if err := entries.Create(ctx, &model.LogEntry{Date: day(1), Time: "08:00-09:00", Activity: "read", UserID: id}); err != nil {
			t.Fatal(err)
		}
	}
	if err := timers.Start(ctx, &model.Timer{UserID: "alice", Activity: "run", StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	if err := users.Delete(ctx, "alice"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n, _ := users.Count(ctx); n != 1 {
		t.Errorf("users left = %d, want 1", n)
	}
	left, err := entries.List(ctx, storage.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].UserID != "bob" {
		t.Errorf("entries left = %+v, want only bob's", left)
	}
	if _, err := timers.Active(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("timer survived user delete: %v", err)
	}
	if err := users.Delete(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestTimerLifecycle(t *testing.T) {
	ctx := context.Background()
	timers := storage.NewTimerRepository(openDB(t))
	start := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)

	if _, err := timers.Active(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Active on empty store: err = %v, want ErrNotFound", err)
	}
	if err := timers.Start(ctx, &model.Timer{UserID: "alice", Activity: "homework", StartedAt: start}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := timers.Start(ctx, &model.Timer{UserID: "alice", Activity: "other", StartedAt: start}); !errors.Is(err, storage.ErrTimerRunning) {
		t.Errorf("second Start: err = %v, want ErrTimerRunning", err)
	}

	stopped, err := timers.Stop(ctx, "alice")
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.Activity != "homework" || !stopped.StartedAt.Equal(start) {
		t.Errorf("Stop = %+v", stopped)
	}
	if _, err := timers.Stop(ctx, "alice"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Stop without timer: err = %v, want ErrNotFound", err)
	}
}
