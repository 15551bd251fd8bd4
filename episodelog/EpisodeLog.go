// Package episodelog persists per-episode returns to SQLite so that
// separate training runs can be compared after the fact. Each Log is
// tagged with a fresh run id, and rows accumulate across runs in the
// same database file.
package episodelog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS episodes (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL,
	episode         INTEGER NOT NULL,
	steps           INTEGER NOT NULL,
	episode_return  REAL NOT NULL,
	info            TEXT NOT NULL DEFAULT '',
	failed          INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL
);
`

// Log records episode results for a single run.
type Log struct {
	db    *sql.DB
	runID string
}

// Open opens or creates the database at path and returns a Log with a
// new run id. The path ":memory:" creates a transient database.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open: could not open database: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("open: could not create schema: %v", err)
	}

	return &Log{db: db, runID: uuid.NewString()}, nil
}

// RunID returns the identifier tagging every row this Log records.
func (l *Log) RunID() string {
	return l.runID
}

// Record persists the result of one finished episode.
func (l *Log) Record(episode, steps int, episodeReturn float64,
	info string, failed bool) error {
	f := 0
	if failed {
		f = 1
	}
	_, err := l.db.Exec(`
		INSERT INTO episodes
		(run_id, episode, steps, episode_return, info, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.runID,
		episode,
		steps,
		episodeReturn,
		info,
		f,
		time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record: could not insert episode: %v", err)
	}
	return nil
}

// Returns reads back the returns of the current run in episode order.
func (l *Log) Returns() ([]float64, error) {
	rows, err := l.db.Query(`
		SELECT episode_return FROM episodes
		WHERE run_id = ?
		ORDER BY episode`, l.runID)
	if err != nil {
		return nil, fmt.Errorf("returns: could not query episodes: %v", err)
	}
	defer rows.Close()

	var returns []float64
	for rows.Next() {
		var r float64
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("returns: could not scan row: %v", err)
		}
		returns = append(returns, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("returns: %v", err)
	}
	return returns, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}
