package dto

import (
	"time"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// RunMigrationRequest is the body of a migration trigger. An empty body keeps
// the configured defaults.
type RunMigrationRequest struct {
	CopyAttachments *bool `json:"copy_attachments"`
}

// MigrationReportResponse is the report of one run
type MigrationReportResponse struct {
	RunID      string                     `json:"run_id"`
	Mode       string                     `json:"mode"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	DurationMS int64                      `json:"duration_ms"`
	Eligible   int                        `json:"eligible"`
	Created    int                        `json:"created"`
	Skipped    int                        `json:"skipped"`
	Failed     int                        `json:"failed"`
	Aborted    bool                       `json:"aborted"`
	AbortError string                     `json:"abort_error,omitempty"`
	Outcomes   []migration.InvoiceOutcome `json:"outcomes"`
}

// NewMigrationReportResponse converts a run report
func NewMigrationReportResponse(r *migration.Report) *MigrationReportResponse {
	if r == nil {
		return nil
	}
	return &MigrationReportResponse{
		RunID:      r.RunID.String(),
		Mode:       string(r.Mode),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Eligible:   r.Eligible,
		Created:    r.Created(),
		Skipped:    r.Skipped(),
		Failed:     r.Failed(),
		Aborted:    r.Aborted,
		AbortError: r.AbortError,
		Outcomes:   r.Outcomes,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string          `json:"status"`
	Database string          `json:"database"`
	Pool     *PoolStatistics `json:"pool,omitempty"`
}

// PoolStatistics mirrors the target database pool counters
type PoolStatistics struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}
