package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists screen runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			provider       TEXT,
			universe_count INTEGER,
			ranked_count   INTEGER,
			excluded_count INTEGER,
			duration_ms    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS ranked_entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL,
			rank       INTEGER,
			ticker     TEXT,
			name       TEXT,
			sector     TEXT,
			volatility REAL,
			momentum   REAL,
			div_yield  REAL,
			score      REAL,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_run ON ranked_entries(run_id)`,

		`CREATE TABLE IF NOT EXISTS exclusions (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			ticker TEXT,
			reason TEXT,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exclusions_run ON exclusions(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := snap.Result

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer tx.Rollback()

	out, err := tx.Exec(`INSERT INTO runs
		(timestamp, provider, universe_count, ranked_count, excluded_count, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		res.GeneratedAt.Unix(), snap.Provider, res.UniverseCount,
		len(res.Entries), len(res.Excluded), snap.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := out.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	for _, e := range res.Entries {
		if _, err := tx.Exec(`INSERT INTO ranked_entries
			(run_id, rank, ticker, name, sector, volatility, momentum, div_yield, score)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			runID, e.Rank, e.Instrument.Ticker, e.Instrument.Name, e.Instrument.Sector,
			e.Volatility, e.Momentum, e.DividendYield, e.Score,
		); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.Instrument.Ticker, err)
		}
	}

	for _, x := range res.Excluded {
		if _, err := tx.Exec(`INSERT INTO exclusions (run_id, ticker, reason) VALUES (?,?,?)`,
			runID, x.Ticker, string(x.Reason),
		); err != nil {
			return fmt.Errorf("insert exclusion %s: %w", x.Ticker, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
