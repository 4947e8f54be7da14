package exporter

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperrors "timecardcli/internal/errors"
	"timecardcli/pkg/contracts/domain"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    inputs TEXT NOT NULL,
    rows_total INTEGER NOT NULL,
    rows_analyzed INTEGER NOT NULL,
    rows_skipped INTEGER NOT NULL,
    employees INTEGER NOT NULL
);
`

const createFlagsTable = `
CREATE TABLE IF NOT EXISTS flags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    employee TEXT NOT NULL,
    position INTEGER NOT NULL
);
`

const createFlagsIndex = `
CREATE INDEX IF NOT EXISTS idx_flags_run ON flags(run_id);
`

// RunRecord is one analysis run as kept in the history database
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Inputs     []string
	Stats      domain.AnalysisStats
	Flagged    map[domain.Category][]string
}

// NewRunRecord captures result for storage
func NewRunRecord(runID string, startedAt, finishedAt time.Time, inputs []string, result *domain.AnalysisResult) RunRecord {
	flagged := make(map[domain.Category][]string, len(domain.Categories))
	for _, category := range domain.Categories {
		flagged[category] = result.ByCategory(category).Names()
	}
	return RunRecord{
		RunID:      runID,
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
		Inputs:     inputs,
		Stats:      result.Stats,
		Flagged:    flagged,
	}
}

// HistoryStore keeps a log of analysis runs in SQLite. It is write-mostly:
// nothing read from it feeds back into an analysis.
type HistoryStore struct {
	path   string
	db     *sql.DB
	logger *slog.Logger
}

// OpenHistoryStore opens or creates the database at path and applies the schema
func OpenHistoryStore(ctx context.Context, path string, logger *slog.Logger) (*HistoryStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create history directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open history database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to open history database", err)
	}

	store := &HistoryStore{path: path, db: db, logger: logger}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *HistoryStore) migrate(ctx context.Context) error {
	for _, stmt := range []string{"PRAGMA foreign_keys = ON", createRunsTable, createFlagsTable, createFlagsIndex} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStorageError("failed to migrate history database", err)
		}
	}
	return nil
}

// Close releases the database
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record stores run in a single transaction
func (s *HistoryStore) Record(ctx context.Context, run RunRecord) error {
	inputs, err := json.Marshal(run.Inputs)
	if err != nil {
		return apperrors.NewStorageError("failed to encode run inputs", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, finished_at, inputs, rows_total, rows_analyzed, rows_skipped, employees)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(inputs),
		run.Stats.RowsTotal, run.Stats.RowsAnalyzed, run.Stats.RowsSkipped, run.Stats.Employees)
	if err != nil {
		return apperrors.NewStorageError("failed to insert run", err).WithContext("run_id", run.RunID)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO flags (run_id, category, employee, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return apperrors.NewStorageError("failed to prepare flag insert", err)
	}
	defer stmt.Close()

	for _, category := range domain.Categories {
		for i, name := range run.Flagged[category] {
			if _, err := stmt.ExecContext(ctx, run.RunID, string(category), name, i); err != nil {
				return apperrors.NewStorageError("failed to insert flag", err).WithContext("run_id", run.RunID)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit run", err)
	}

	s.logger.Debug("Run recorded",
		slog.String("path", s.path),
		slog.String("run_id", run.RunID))
	return nil
}

// List returns up to limit runs, most recent first. A limit of zero or less
// returns every run.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, inputs, rows_total, rows_analyzed, rows_skipped, employees
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query runs", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run               RunRecord
			started, finished string
			inputs            string
		)
		if err := rows.Scan(&run.RunID, &started, &finished, &inputs,
			&run.Stats.RowsTotal, &run.Stats.RowsAnalyzed, &run.Stats.RowsSkipped, &run.Stats.Employees); err != nil {
			return nil, apperrors.NewStorageError("failed to scan run", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, apperrors.NewStorageError("invalid run start time", err).WithContext("run_id", run.RunID)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, apperrors.NewStorageError("invalid run finish time", err).WithContext("run_id", run.RunID)
		}
		if err := json.Unmarshal([]byte(inputs), &run.Inputs); err != nil {
			return nil, apperrors.NewStorageError("invalid run inputs", err).WithContext("run_id", run.RunID)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read runs", err)
	}
	rows.Close()

	for i := range runs {
		if runs[i].Flagged, err = s.loadFlags(ctx, runs[i].RunID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *HistoryStore) loadFlags(ctx context.Context, runID string) (map[domain.Category][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, employee FROM flags WHERE run_id = ? ORDER BY position, id`, runID)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query flags", err)
	}
	defer rows.Close()

	flagged := make(map[domain.Category][]string, len(domain.Categories))
	for _, category := range domain.Categories {
		flagged[category] = []string{}
	}
	for rows.Next() {
		var category, employee string
		if err := rows.Scan(&category, &employee); err != nil {
			return nil, apperrors.NewStorageError("failed to scan flag", err)
		}
		c := domain.Category(category)
		flagged[c] = append(flagged[c], employee)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read flags", err)
	}
	return flagged, nil
}
