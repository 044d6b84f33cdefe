package sqlsource

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/telemetry"
)

// Reader implements migration.SourceReader over a dedicated legacy database pool
type Reader struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

// NewReader creates a reader; a zero queryTimeout leaves queries bounded only by ctx
func NewReader(db *sqlx.DB, queryTimeout time.Duration) *Reader {
	return &Reader{db: db, queryTimeout: queryTimeout}
}

// ListEligibleInvoiceIDs returns customer invoices in the open or paid state, by id
func (r *Reader) ListEligibleInvoiceIDs(ctx context.Context) ([]int64, error) {
	query, args := eligibleInvoiceIDsQuery()
	var ids []int64
	if err := r.selectRows(ctx, tableInvoice, &ids, query, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadInvoice reads one invoice header with its currency name
func (r *Reader) ReadInvoice(ctx context.Context, legacyID int64) (*migration.LegacyInvoiceHeader, error) {
	query, args := invoiceQuery(legacyID)
	var rows []invoiceRow
	if err := r.selectRows(ctx, tableInvoice, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &migration.QueryError{
			Query: tableInvoice,
			Err:   fmt.Errorf("invoice %d does not exist", legacyID),
		}
	}
	return rows[0].toLegacy(), nil
}

// ReadLines reads the lines of one invoice, by id
func (r *Reader) ReadLines(ctx context.Context, legacyID int64) ([]migration.LegacyInvoiceLine, error) {
	query, args := linesQuery(legacyID)
	var rows []lineRow
	if err := r.selectRows(ctx, tableInvoiceLine, &rows, query, args...); err != nil {
		return nil, err
	}

	lines := make([]migration.LegacyInvoiceLine, len(rows))
	for i, row := range rows {
		lines[i] = row.toLegacy()
	}
	return lines, nil
}

// ListAttachments reads the files stored in the database for one invoice
func (r *Reader) ListAttachments(ctx context.Context, legacyID int64) ([]migration.LegacyAttachment, error) {
	query, args := attachmentsQuery(legacyID)
	var rows []attachmentRow
	if err := r.selectRows(ctx, tableAttachment, &rows, query, args...); err != nil {
		return nil, err
	}

	attachments := make([]migration.LegacyAttachment, len(rows))
	for i, row := range rows {
		attachments[i] = row.toLegacy()
	}
	return attachments, nil
}

// Close closes the legacy pool
func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) selectRows(ctx context.Context, table string, dest any, query string, args ...any) error {
	ctx, span := telemetry.StartSpan(ctx, "sql "+table,
		telemetry.WithAttribute(telemetry.SpanAttrSQLTable, table),
	)
	defer span.End()

	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		telemetry.RecordError(span, err)
		return &migration.QueryError{Query: table, Err: err}
	}
	return nil
}

var _ migration.SourceReader = (*Reader)(nil)
