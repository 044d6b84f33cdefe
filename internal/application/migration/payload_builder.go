package migration

import (
	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// PayloadBuilder turns a legacy invoice and its resolved references into a
// create-payload. Output depends only on its inputs.
type PayloadBuilder struct{}

// NewPayloadBuilder creates a new PayloadBuilder
func NewPayloadBuilder() *PayloadBuilder {
	return &PayloadBuilder{}
}

// BuildInvoicePayload builds the nested invoice payload. The legacy currency is
// discarded in favour of the company currency of mctx.
func (b *PayloadBuilder) BuildInvoicePayload(
	mctx migration.MigrationContext,
	header *migration.LegacyInvoiceHeader,
	lines []migration.LegacyInvoiceLine,
	refs *ResolvedReferences,
) (*accounting.InvoicePayload, error) {
	payload := &accounting.InvoicePayload{
		MoveType:      accounting.MoveTypeOutInvoice,
		InvoiceDate:   header.InvoiceDate,
		JournalID:     refs.Journal.ID,
		PartnerID:     refs.Partner.ID,
		InvoiceOrigin: header.Origin,
		Narration:     header.Comment,
		CurrencyCode:  mctx.CompanyCurrency,
		CompanyID:     mctx.CompanyID,
		CreatedBy:     mctx.ActingUserID,
		OriginalID:    header.LegacyID,
		Lines:         make([]accounting.InvoiceLinePayload, 0, len(lines)),
	}

	for _, line := range lines {
		product, ok := refs.Product(line.LegacyProductID)
		if !ok {
			return nil, &migration.UnresolvedReferenceError{Kind: accounting.EntityProduct, LegacyID: line.LegacyProductID}
		}
		payload.Lines = append(payload.Lines, b.BuildLinePayload(line, product))
	}

	return payload, nil
}

// BuildLinePayload builds one line payload. Taxes and unit of measure come from
// the resolved product, not from the legacy line.
func (b *PayloadBuilder) BuildLinePayload(line migration.LegacyInvoiceLine, product *accounting.Product) accounting.InvoiceLinePayload {
	return accounting.InvoiceLinePayload{
		ProductID:    product.ID,
		Name:         line.Name,
		Quantity:     line.Quantity,
		Discount:     line.Discount,
		PriceUnit:    line.UnitPrice,
		TaxIDs:       product.SortedTaxIDs(),
		ProductUomID: product.UomID,
		OriginalID:   line.LegacyLineID,
	}
}
