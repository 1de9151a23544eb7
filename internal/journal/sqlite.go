package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sniper-art710/Deriv-botss/internal/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS settlements (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	contract_id INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	stake REAL NOT NULL,
	profit REAL NOT NULL,
	result TEXT NOT NULL,
	placed_at DATETIME NOT NULL,
	settled_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_settlements_run ON settlements(run_id);
`

// SQLite appends settlement records to a local database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path and applies
// the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// RecordSettlement inserts one settled contract.
func (j *SQLite) RecordSettlement(rec Record) error {
	if rec.ID == "" {
		rec.ID = id.New()
	}
	_, err := j.db.Exec(`
		INSERT INTO settlements
		(id, run_id, contract_id, symbol, stake, profit, result, placed_at, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RunID, rec.ContractID, rec.Symbol, rec.Stake,
		rec.Profit, rec.Result, rec.PlacedAt, rec.SettledAt,
	)
	return err
}

// Close releases the database handle.
func (j *SQLite) Close() error {
	return j.db.Close()
}
