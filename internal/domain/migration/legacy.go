package migration

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Legacy invoice type and states used by the eligibility filter
const (
	LegacyTypeCustomerInvoice = "out_invoice"
	LegacyStateOpen           = "open"
	LegacyStatePaid           = "paid"
)

// EligibleStates returns the legacy states of final (posted or paid) invoices
func EligibleStates() []string {
	return []string{LegacyStateOpen, LegacyStatePaid}
}

// LegacyInvoiceHeader is an immutable snapshot of a legacy invoice header
type LegacyInvoiceHeader struct {
	LegacyID        int64
	MoveType        string
	State           string
	InvoiceDate     time.Time
	LegacyJournalID int64
	LegacyPartnerID int64
	Origin          string
	Comment         string
	Currency        string
}

// IsEligible reports whether the invoice is a customer invoice in a final state.
// Drafts and cancelled invoices are not migrated.
func (h *LegacyInvoiceHeader) IsEligible() bool {
	return h.MoveType == LegacyTypeCustomerInvoice && slices.Contains(EligibleStates(), h.State)
}

// LegacyInvoiceLine is an immutable snapshot of one legacy invoice line
type LegacyInvoiceLine struct {
	LegacyLineID    int64
	LegacyInvoiceID int64
	LegacyProductID int64
	Quantity        decimal.Decimal
	Discount        decimal.Decimal
	UnitPrice       decimal.Decimal
	Name            string
}

// LegacyAttachment is a file attached to a legacy invoice
type LegacyAttachment struct {
	LegacyID int64
	Name     string
	MimeType string
	Data     []byte
	// StoreFname is the legacy filestore path, set when the content is not stored inline
	StoreFname string
}

// HasContent reports whether the file content was read from the source
func (a LegacyAttachment) HasContent() bool {
	return len(a.Data) > 0
}
