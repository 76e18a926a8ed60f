package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"hrdash/prediction"
)

// ErrHistoryDisabled is returned by a nil Store.
var ErrHistoryDisabled = errors.New("prediction history disabled")

const schema = `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        prediction_id TEXT NOT NULL,
        predicted_label INTEGER NOT NULL,
        confidence REAL NOT NULL,
        message TEXT NOT NULL,
        input TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        UNIQUE(prediction_id)
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `

// Store is the SQLite prediction history. A nil *Store is valid and reports
// ErrHistoryDisabled.
type Store struct {
	database *sql.DB
}

// Open opens (or creates) the history database at path in WAL mode, creating
// the parent directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	database, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer
	database.SetMaxOpenConns(1)

	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{database: database}, nil
}

// Record saves one prediction. It makes Store a prediction.Sink.
func (s *Store) Record(ctx context.Context, outcome *prediction.Outcome) error {
	if s == nil {
		return ErrHistoryDisabled
	}
	input, err := json.Marshal(outcome.Input)
	if err != nil {
		return fmt.Errorf("marshal input: %w", err)
	}
	_, err = s.database.ExecContext(ctx, `
        INSERT OR REPLACE INTO predictions (
            prediction_id, predicted_label, confidence, message, input, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)
    `,
		outcome.ID.String(),
		outcome.Label,
		outcome.Confidence,
		outcome.Message,
		string(input),
		outcome.CreatedAt.UTC(),
	)
	return err
}

// RecentPredictions returns up to limit predictions, newest first.
func (s *Store) RecentPredictions(ctx context.Context, limit int) ([]prediction.Outcome, error) {
	if s == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		return []prediction.Outcome{}, nil
	}
	rows, err := s.database.QueryContext(ctx, `
        SELECT prediction_id, predicted_label, confidence, message, input, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]prediction.Outcome, 0)
	for rows.Next() {
		var (
			o         prediction.Outcome
			id, input string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &o.Label, &o.Confidence, &o.Message, &input, &createdAt); err != nil {
			return nil, err
		}
		if o.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("prediction %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(input), &o.Input); err != nil {
			return nil, fmt.Errorf("prediction %s: %w", id, err)
		}
		o.CreatedAt = createdAt.UTC()
		o.HighRisk = o.Label == prediction.LabelLeaving
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// Count returns the number of stored predictions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil {
		return 0, ErrHistoryDisabled
	}
	var n int
	err := s.database.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.database.Close()
}
