package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run is the audit record of one ingestion request.
type Run struct {
	ID            uuid.UUID `json:"id"`
	Kind          Kind      `json:"kind"`
	Filename      string    `json:"filename"`
	AdminID       int64     `json:"admin_id,omitempty"`
	Total         int       `json:"total"`
	Succeeded     int       `json:"succeeded"`
	Failed        int       `json:"failed"`
	NotFound      int       `json:"not_found"`
	CreatedBrands int       `json:"created_brands"`
	Errors        []string  `json:"errors"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

// RunStore persists ingestion runs.
type RunStore interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

// PGRunStore writes runs into ingestion_runs.
type PGRunStore struct {
	pool *pgxpool.Pool
}

// NewRunStore returns a PGRunStore.
func NewRunStore(pool *pgxpool.Pool) *PGRunStore {
	return &PGRunStore{pool: pool}
}

// Record persists the run.
func (s *PGRunStore) Record(ctx context.Context, run Run) error {
	errorsJSON, err := json.Marshal(run.Errors)
	if err != nil {
		return err
	}
	var adminID *int64
	if run.AdminID > 0 {
		adminID = &run.AdminID
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO ingestion_runs
		(id, kind, filename, admin_id, total, succeeded, failed, not_found, created_brands, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		run.ID, string(run.Kind), run.Filename, adminID, run.Total, run.Succeeded, run.Failed,
		run.NotFound, run.CreatedBrands, errorsJSON, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record ingestion run: %w", err)
	}
	return nil
}

// Recent lists the latest runs, newest first.
func (s *PGRunStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `SELECT id, kind, filename, COALESCE(admin_id, 0), total, succeeded, failed,
		not_found, created_brands, errors, started_at, finished_at
		FROM ingestion_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			run        Run
			kind       string
			errorsJSON []byte
		)
		if err := rows.Scan(&run.ID, &kind, &run.Filename, &run.AdminID, &run.Total, &run.Succeeded, &run.Failed,
			&run.NotFound, &run.CreatedBrands, &errorsJSON, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		run.Kind = Kind(kind)
		if err := json.Unmarshal(errorsJSON, &run.Errors); err != nil {
			return nil, fmt.Errorf("decode run errors: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

var _ RunStore = (*PGRunStore)(nil)
