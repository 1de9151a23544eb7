package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name='settlements'`)
	assert.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found = name == "settlements"
	}
	assert.NoError(t, rows.Err())
	assert.True(t, found)
}

func TestSQLiteRecordSettlement(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	placed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	settled := placed.Add(12 * time.Second)

	rec := Record{
		RunID:      "01RUN",
		ContractID: 123456789,
		Symbol:     "R_50",
		Stake:      104.04,
		Profit:     -104.04,
		Result:     "lost",
		PlacedAt:   placed,
		SettledAt:  settled,
	}
	assert.NoError(t, j.RecordSettlement(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	row := db.QueryRow(`SELECT id, run_id, contract_id, symbol, stake, profit, result FROM settlements`)
	var got Record
	assert.NoError(t, row.Scan(&got.ID, &got.RunID, &got.ContractID, &got.Symbol, &got.Stake, &got.Profit, &got.Result))

	assert.NotEmpty(t, got.ID, "insert should assign a ULID")
	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.ContractID, got.ContractID)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Stake, got.Stake)
	assert.Equal(t, rec.Profit, got.Profit)
	assert.Equal(t, rec.Result, got.Result)
}

func TestSQLiteRecordsSortByPlacementOrder(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	for i := int64(1); i <= 3; i++ {
		assert.NoError(t, j.RecordSettlement(Record{
			RunID:      "01RUN",
			ContractID: i,
			Symbol:     "R_50",
			Result:     "won",
			PlacedAt:   time.Now(),
			SettledAt:  time.Now(),
		}))
	}
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT contract_id FROM settlements ORDER BY id`)
	assert.NoError(t, err)
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var cid int64
		assert.NoError(t, rows.Scan(&cid))
		ids = append(ids, cid)
	}
	assert.NoError(t, rows.Err())
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestNopJournal(t *testing.T) {
	t.Parallel()

	var j Journal = Nop{}
	assert.NoError(t, j.RecordSettlement(Record{}))
	assert.NoError(t, j.Close())
}
