package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
	_ "github.com/mattn/go-sqlite3"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "snake.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitializeDatabase(db); err != nil {
		t.Fatalf("init: %v", err)
	}
	// running it twice is harmless
	if err := InitializeDatabase(db); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	return db
}

func snapshot() structs.Snapshot {
	return structs.Snapshot{
		Width:      10,
		Height:     8,
		Body:       []structs.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}},
		Direction:  structs.Right,
		Foods:      []structs.Food{{Cell: structs.Cell{X: 5, Y: 5}, Score: 1}},
		Obstacles:  []structs.Cell{{X: 0, Y: 0}},
		Score:      1,
		IntervalMS: 120,
		Phase:      structs.Running,
	}
}

func TestSaveLoadSession(t *testing.T) {
	db := openDB(t)
	want := snapshot()
	if err := SaveSession(db, "abc", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.Score = 2
	want.Body = append(want.Body, structs.Cell{X: 3, Y: 1})
	if err := SaveSession(db, "abc", want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := LoadSession(db, "abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Score != 2 || len(got.Body) != 3 || got.Direction != structs.Right || got.Phase != structs.Running {
		t.Fatalf("loaded %+v", got)
	}
	if got.Obstacles[0] != (structs.Cell{}) {
		t.Fatalf("origin obstacle lost: %v", got.Obstacles)
	}
}

func TestLoadSession_Unknown(t *testing.T) {
	db := openDB(t)
	if _, err := LoadSession(db, "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err=%v want sql.ErrNoRows", err)
	}
}

func TestDeleteSession(t *testing.T) {
	db := openDB(t)
	if err := SaveSession(db, "abc", snapshot()); err != nil {
		t.Fatal(err)
	}
	if err := DeleteSession(db, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := LoadSession(db, "abc"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("session survived delete: %v", err)
	}
	if err := DeleteSession(db, "abc"); err != nil {
		t.Fatalf("deleting twice: %v", err)
	}
}

func TestPurgeStale(t *testing.T) {
	db := openDB(t)
	if err := SaveSession(db, "old", snapshot()); err != nil {
		t.Fatal(err)
	}
	n, err := PurgeStale(db, time.Now().Add(-time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("purged %d err=%v, want nothing", n, err)
	}
	n, err = PurgeStale(db, time.Now().Add(time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("purged %d err=%v, want 1", n, err)
	}
}
