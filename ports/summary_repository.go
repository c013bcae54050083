package ports

import (
	"context"
	"time"

	"lcmonte/domain/core"
	"lcmonte/domain/stats"
)

// RunRecord describes one stored simulation run.
type RunRecord struct {
	ID        core.ID
	Seed      int64
	Trials    int
	CreatedAt time.Time
}

// SummaryRecord is one stored per-bin, per-statistic aggregate.
type SummaryRecord struct {
	RunID           core.ID
	BinLabel        string
	Family          stats.Family
	Statistic       string
	Mean            float64
	StdDev          float64
	DefinedFraction float64
}

// SummaryRepository persists run metadata and per-bin summary rows.
type SummaryRepository interface {
	CreateRun(ctx context.Context, run RunRecord) error
	SaveSummary(ctx context.Context, record SummaryRecord) error
	ListRuns(ctx context.Context) ([]RunRecord, error)
	ListSummaries(ctx context.Context, runID core.ID) ([]SummaryRecord, error)
}
