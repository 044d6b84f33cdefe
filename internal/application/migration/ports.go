package migration

import (
	"context"
	"time"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// RunLock serializes migration runs against the same target store.
// TryLock returns ok=false when another holder owns key.
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// BlobStore stores attachment content
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// MetricsRecorder receives per-invoice and per-run measurements
type MetricsRecorder interface {
	RecordInvoice(ctx context.Context, outcome migration.InvoiceOutcome)
	RecordRun(ctx context.Context, report *migration.Report)
}

type nopMetrics struct{}

func (nopMetrics) RecordInvoice(context.Context, migration.InvoiceOutcome) {}
func (nopMetrics) RecordRun(context.Context, *migration.Report)            {}
