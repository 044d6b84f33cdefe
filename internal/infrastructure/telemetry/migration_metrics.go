package telemetry

import (
	"context"
	"fmt"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrMode      = attribute.Key("mode")
	AttrOutcome   = attribute.Key("outcome")
	AttrErrorCode = attribute.Key("error_code")
	AttrAborted   = attribute.Key("aborted")
)

// RunDurationBuckets are bucket boundaries for run duration (seconds)
var RunDurationBuckets = []float64{1, 5, 15, 60, 300, 900, 1800, 3600}

// MigrationMetrics records invoice outcomes and run durations
type MigrationMetrics struct {
	invoices    metric.Int64Counter
	attachments metric.Int64Counter
	runs        metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewMigrationMetrics creates the migration instruments on meter
func NewMigrationMetrics(meter metric.Meter) (*MigrationMetrics, error) {
	invoices, err := meter.Int64Counter("migration.invoices",
		metric.WithDescription("Legacy invoices processed, by outcome"),
		metric.WithUnit("{invoice}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoices counter: %w", err)
	}
	attachments, err := meter.Int64Counter("migration.attachments.copied",
		metric.WithDescription("Legacy attachments copied to blob storage"),
		metric.WithUnit("{attachment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachments counter: %w", err)
	}
	runs, err := meter.Int64Counter("migration.runs",
		metric.WithDescription("Migration runs, by mode and abort status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create runs counter: %w", err)
	}
	runDuration, err := meter.Float64Histogram("migration.run.duration",
		metric.WithDescription("Wall time of a migration run"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(RunDurationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run duration histogram: %w", err)
	}

	return &MigrationMetrics{
		invoices:    invoices,
		attachments: attachments,
		runs:        runs,
		runDuration: runDuration,
	}, nil
}

// RecordInvoice counts one invoice outcome
func (m *MigrationMetrics) RecordInvoice(ctx context.Context, outcome migration.InvoiceOutcome) {
	attrs := []attribute.KeyValue{AttrOutcome.String(string(outcome.State))}
	if outcome.ErrorCode != "" {
		attrs = append(attrs, AttrErrorCode.String(outcome.ErrorCode))
	}
	m.invoices.Add(ctx, 1, metric.WithAttributes(attrs...))
	if outcome.AttachmentsCopied > 0 {
		m.attachments.Add(ctx, int64(outcome.AttachmentsCopied))
	}
}

// RecordRun counts a finished or aborted run and its duration
func (m *MigrationMetrics) RecordRun(ctx context.Context, report *migration.Report) {
	attrs := metric.WithAttributes(
		AttrMode.String(string(report.Mode)),
		AttrAborted.Bool(report.Aborted),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, report.Duration().Seconds(), attrs)
}
