package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"smartenergy/ml"
)

// Store keeps a best-effort history of served predictions.
type Store struct {
	db *sql.DB
}

type Record struct {
	ID         int64   `json:"id"`
	BatchIndex int     `json:"batch_index"`
	Predicted  float64 `json:"predicted"`
	Timestamp  *string `json:"timestamp"`
	CreatedAt  string  `json:"created_at"`
}

// Open initializes the SQLite database and bootstraps the schema.
func Open(path string) (*Store, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        batch_index INTEGER NOT NULL,
        predicted REAL NOT NULL,
        timestamp TEXT,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SavePredictions records a served batch. Only string timestamps are
// persisted; other passthrough values are stored as NULL.
func (s *Store) SavePredictions(predictions []ml.Prediction) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	if len(predictions) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(`
        INSERT INTO predictions (batch_index, predicted, timestamp, created_at)
        VALUES (?, ?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, p := range predictions {
		var ts sql.NullString
		if value, ok := p.Timestamp.(string); ok {
			ts = sql.NullString{String: value, Valid: true}
		}
		if _, err := stmt.Exec(p.Index, p.Predicted, ts, now); err != nil {
			return err
		}
	}
	return nil
}

// QueryRecent returns the most recently recorded predictions.
func (s *Store) QueryRecent(limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(`
        SELECT id, batch_index, predicted, timestamp, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var ts sql.NullString
		if err := rows.Scan(&r.ID, &r.BatchIndex, &r.Predicted, &ts, &r.CreatedAt); err != nil {
			return nil, err
		}
		if ts.Valid {
			r.Timestamp = &ts.String
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
