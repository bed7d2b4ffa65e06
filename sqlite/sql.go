package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/snake-in-grid/structs"
)

// 只保存进行中的对局，结束后行会被删掉，不留分数记录
const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS Sessions (
    SessionID TEXT PRIMARY KEY,
    MapWidth INTEGER,
    MapHeight INTEGER,
    State TEXT,
    UpdatedAt TIMESTAMP
);
`

const createSessionsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_session_updated ON Sessions (UpdatedAt);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	if err := executeSQL(db, createSessionsTableSQL); err != nil {
		return err
	}
	return executeSQL(db, createSessionsIndexSQL)
}

// SaveSession upserts the snapshot of a running session.
func SaveSession(db *sql.DB, id string, snap structs.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	_, err = tx.Exec("INSERT OR REPLACE INTO Sessions (SessionID, MapWidth, MapHeight, State, UpdatedAt) VALUES (?, ?, ?, ?, ?)",
		id, snap.Width, snap.Height, string(state), time.Now().UTC())
	if err != nil {
		tx.Rollback()
		return err
	}
	// 提交事务
	return tx.Commit()
}

// LoadSession returns sql.ErrNoRows when the session is unknown.
func LoadSession(db *sql.DB, id string) (structs.Snapshot, error) {
	var snap structs.Snapshot
	var state string
	err := db.QueryRow("SELECT State FROM Sessions WHERE SessionID = ?", id).Scan(&state)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal([]byte(state), &snap); err != nil {
		return snap, fmt.Errorf("session %s: corrupt state: %w", id, err)
	}
	return snap, nil
}

func DeleteSession(db *sql.DB, id string) error {
	_, err := db.Exec("DELETE FROM Sessions WHERE SessionID = ?", id)
	return err
}

// PurgeStale drops sessions not touched since before, returning how many.
func PurgeStale(db *sql.DB, before time.Time) (int64, error) {
	res, err := db.Exec("DELETE FROM Sessions WHERE UpdatedAt < ?", before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
