package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoicePayload is the nested create-payload for one invoice. Lines are
// embedded and created in the same write as the header.
type InvoicePayload struct {
	MoveType      string               `json:"move_type"`
	InvoiceDate   time.Time            `json:"invoice_date"`
	JournalID     int64                `json:"journal_id"`
	PartnerID     int64                `json:"partner_id"`
	InvoiceOrigin string               `json:"invoice_origin"`
	Narration     string               `json:"narration"`
	CurrencyCode  string               `json:"currency"`
	CompanyID     int64                `json:"company_id"`
	CreatedBy     int64                `json:"created_by"`
	OriginalID    int64                `json:"original_id"`
	Lines         []InvoiceLinePayload `json:"lines"`
}

// InvoiceLinePayload is the create-payload of one invoice line
type InvoiceLinePayload struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Discount     decimal.Decimal `json:"discount"`
	PriceUnit    decimal.Decimal `json:"price_unit"`
	TaxIDs       []int64         `json:"tax_ids"`
	ProductUomID int64           `json:"product_uom_id"`
	OriginalID   int64           `json:"original_id"`
}

// ToInvoice converts the payload into a draft Invoice ready to be persisted
func (p *InvoicePayload) ToInvoice() *Invoice {
	inv := &Invoice{
		MoveType:      p.MoveType,
		State:         InvoiceStateDraft,
		InvoiceDate:   p.InvoiceDate,
		JournalID:     p.JournalID,
		PartnerID:     p.PartnerID,
		InvoiceOrigin: p.InvoiceOrigin,
		Narration:     p.Narration,
		CurrencyCode:  p.CurrencyCode,
		CompanyID:     p.CompanyID,
		CreatedBy:     p.CreatedBy,
		OriginalID:    p.OriginalID,
		Lines:         make([]InvoiceLine, len(p.Lines)),
	}
	for i, l := range p.Lines {
		taxIDs := make([]int64, len(l.TaxIDs))
		copy(taxIDs, l.TaxIDs)
		inv.Lines[i] = InvoiceLine{
			ProductID:    l.ProductID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			Discount:     l.Discount,
			PriceUnit:    l.PriceUnit,
			TaxIDs:       taxIDs,
			ProductUomID: l.ProductUomID,
			OriginalID:   l.OriginalID,
		}
	}
	return inv
}
