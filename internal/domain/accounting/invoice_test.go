package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_SortedTaxIDs(t *testing.T) {
	p := &Product{TaxIDs: []int64{7, 2, 7, 5}}

	ids := p.SortedTaxIDs()

	assert.Equal(t, []int64{2, 5, 7}, ids)
	assert.Equal(t, []int64{7, 2, 7, 5}, p.TaxIDs, "original slice must not be reordered")
}

func TestProduct_SortedTaxIDs_Empty(t *testing.T) {
	p := &Product{}
	assert.Empty(t, p.SortedTaxIDs())
}

func TestInvoiceLine_Subtotal(t *testing.T) {
	line := InvoiceLine{
		Quantity:  decimal.NewFromInt(3),
		PriceUnit: decimal.RequireFromString("10.00"),
		Discount:  decimal.NewFromInt(10),
	}

	assert.True(t, decimal.RequireFromString("27").Equal(line.Subtotal()))
}

func TestInvoice_UntaxedAmount(t *testing.T) {
	inv := &Invoice{Lines: []InvoiceLine{
		{Quantity: decimal.NewFromInt(1), PriceUnit: decimal.NewFromInt(5), Discount: decimal.Zero},
		{Quantity: decimal.NewFromInt(2), PriceUnit: decimal.NewFromInt(4), Discount: decimal.NewFromInt(50)},
	}}

	assert.True(t, decimal.NewFromInt(9).Equal(inv.UntaxedAmount()))
}

func TestInvoicePayload_ToInvoice(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	payload := &InvoicePayload{
		MoveType:     MoveTypeOutInvoice,
		InvoiceDate:  date,
		JournalID:    3,
		PartnerID:    8,
		CurrencyCode: "EUR",
		OriginalID:   501,
		Lines: []InvoiceLinePayload{{
			ProductID:    44,
			Quantity:     decimal.NewFromInt(3),
			Discount:     decimal.Zero,
			PriceUnit:    decimal.RequireFromString("10.0"),
			TaxIDs:       []int64{1},
			ProductUomID: 1,
			OriginalID:   9001,
		}},
	}

	inv := payload.ToInvoice()

	require.Len(t, inv.Lines, 1)
	assert.Equal(t, InvoiceStateDraft, inv.State)
	assert.Equal(t, int64(501), inv.OriginalID)
	assert.Equal(t, "EUR", inv.CurrencyCode)
	assert.Equal(t, date, inv.InvoiceDate)
	assert.Equal(t, int64(44), inv.Lines[0].ProductID)
	assert.Equal(t, int64(9001), inv.Lines[0].OriginalID)

	payload.Lines[0].TaxIDs[0] = 99
	assert.Equal(t, []int64{1}, inv.Lines[0].TaxIDs, "tax ids are copied")
}

func TestEntityKind_IsValid(t *testing.T) {
	assert.True(t, EntityJournal.IsValid())
	assert.True(t, EntityAttachment.IsValid())
	assert.False(t, EntityKind("account").IsValid())
	assert.Equal(t, "product", EntityProduct.String())
}
