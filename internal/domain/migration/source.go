package migration

import "context"

// Mode identifies the transport used to read the legacy source
type Mode string

const (
	ModeRPC Mode = "rpc"
	ModeSQL Mode = "sql"
)

// IsValid returns true if the mode is a known transport
func (m Mode) IsValid() bool {
	return m == ModeRPC || m == ModeSQL
}

// SourceReader reads legacy invoices. Implementations are read-only against
// the legacy source and hold a connection scoped to one migration run.
type SourceReader interface {
	// ListEligibleInvoiceIDs returns the ids of customer invoices in a final
	// state, in read order
	ListEligibleInvoiceIDs(ctx context.Context) ([]int64, error)
	// ReadInvoice reads one invoice header
	ReadInvoice(ctx context.Context, legacyID int64) (*LegacyInvoiceHeader, error)
	// ReadLines reads the lines of one invoice
	ReadLines(ctx context.Context, legacyID int64) ([]LegacyInvoiceLine, error)
	// ListAttachments reads the files attached to one invoice
	ListAttachments(ctx context.Context, legacyID int64) ([]LegacyAttachment, error)
	// Close releases the run-scoped connection
	Close() error
}

// SourceConnector acquires the run-scoped connection to the legacy source.
// Connect validates the connection parameters before any network access.
type SourceConnector interface {
	Mode() Mode
	Connect(ctx context.Context) (SourceReader, error)
}
