package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"lcmonte/domain/core"
	"lcmonte/domain/stats"
	"lcmonte/ports"
)

// summaryRepository implements the SummaryRepository interface
type summaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sqlx.DB) ports.SummaryRepository {
	return &summaryRepository{db: db}
}

// Connect opens a postgres connection pool for the repository.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the run and summary tables if they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		seed BIGINT NOT NULL,
		trials INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS bin_summaries (
		run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		bin_label TEXT NOT NULL,
		family TEXT NOT NULL,
		statistic TEXT NOT NULL,
		mean DOUBLE PRECISION,
		stddev DOUBLE PRECISION,
		defined_fraction DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, bin_label, statistic)
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate summary schema: %w", err)
	}
	return nil
}

// CreateRun inserts run metadata.
func (r *summaryRepository) CreateRun(ctx context.Context, run ports.RunRecord) error {
	query := `INSERT INTO runs (id, seed, trials, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, run.ID, run.Seed, run.Trials, run.CreatedAt); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// SaveSummary upserts one per-bin, per-statistic aggregate.
func (r *summaryRepository) SaveSummary(ctx context.Context, record ports.SummaryRecord) error {
	query := `INSERT INTO bin_summaries (
		run_id, bin_label, family, statistic, mean, stddev, defined_fraction
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (run_id, bin_label, statistic) DO UPDATE SET
		mean = EXCLUDED.mean,
		stddev = EXCLUDED.stddev,
		defined_fraction = EXCLUDED.defined_fraction`

	// NaN has no SQL representation; store it as NULL and read it back out
	// the same way.
	mean := nullFloat(record.Mean)
	stddev := nullFloat(record.StdDev)
	_, err := r.db.ExecContext(ctx, query,
		record.RunID, record.BinLabel, record.Family, record.Statistic,
		mean, stddev, record.DefinedFraction,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}
	return nil
}

// ListRuns returns all stored runs, newest first.
func (r *summaryRepository) ListRuns(ctx context.Context) ([]ports.RunRecord, error) {
	query := `SELECT id, seed, trials, created_at FROM runs ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunRecord
	for rows.Next() {
		var run ports.RunRecord
		if err := rows.Scan(&run.ID, &run.Seed, &run.Trials, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListSummaries returns every summary row of one run.
func (r *summaryRepository) ListSummaries(ctx context.Context, runID core.ID) ([]ports.SummaryRecord, error) {
	query := `SELECT run_id, bin_label, family, statistic, mean, stddev, defined_fraction
	FROM bin_summaries WHERE run_id = $1 ORDER BY bin_label, statistic`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var records []ports.SummaryRecord
	for rows.Next() {
		var rec ports.SummaryRecord
		var family string
		var mean, stddev sql.NullFloat64
		if err := rows.Scan(&rec.RunID, &rec.BinLabel, &family, &rec.Statistic, &mean, &stddev, &rec.DefinedFraction); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		rec.Family = stats.Family(family)
		rec.Mean = floatOrNaN(mean)
		rec.StdDev = floatOrNaN(stddev)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if exists, err := r.runExists(ctx, runID); err != nil {
			return nil, err
		} else if !exists {
			return nil, core.ErrRunNotFound
		}
	}
	return records, nil
}

func (r *summaryRepository) runExists(ctx context.Context, runID core.ID) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = $1`, runID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check run: %w", err)
	}
	return true, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
