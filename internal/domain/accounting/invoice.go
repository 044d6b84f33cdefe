package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveTypeOutInvoice is the move type of a customer invoice
const MoveTypeOutInvoice = "out_invoice"

// InvoiceState represents the state of a migrated invoice
type InvoiceState string

const (
	InvoiceStateDraft  InvoiceState = "draft"
	InvoiceStatePosted InvoiceState = "posted"
)

// Invoice is an invoice (accounting move) of the target company.
// Invoices created by the migration are tagged with the legacy invoice id in
// OriginalID and are left in draft state.
type Invoice struct {
	ID            int64
	MoveType      string
	State         InvoiceState
	InvoiceDate   time.Time
	JournalID     int64
	PartnerID     int64
	InvoiceOrigin string
	Narration     string
	CurrencyCode  string
	CompanyID     int64
	CreatedBy     int64
	OriginalID    int64
	Lines         []InvoiceLine
	CreatedAt     time.Time
}

// InvoiceLine is a line of an Invoice. Lines are only ever created together
// with their invoice.
type InvoiceLine struct {
	ID           int64
	InvoiceID    int64
	ProductID    int64
	Name         string
	Quantity     decimal.Decimal
	Discount     decimal.Decimal
	PriceUnit    decimal.Decimal
	TaxIDs       []int64
	ProductUomID int64
	OriginalID   int64
}

// Subtotal returns quantity * price * (1 - discount/100), before taxes
func (l *InvoiceLine) Subtotal() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(l.Discount.Div(decimal.NewFromInt(100)))
	return l.Quantity.Mul(l.PriceUnit).Mul(factor)
}

// UntaxedAmount returns the sum of the line subtotals
func (i *Invoice) UntaxedAmount() decimal.Decimal {
	total := decimal.Zero
	for idx := range i.Lines {
		total = total.Add(i.Lines[idx].Subtotal())
	}
	return total
}
