package migration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRefs() *ResolvedReferences {
	return &ResolvedReferences{
		Journal: &accounting.Journal{ID: 3, OriginalID: 77},
		Partner: &accounting.Partner{ID: 8, OriginalID: 12},
		Products: map[int64]*accounting.Product{
			9: {ID: 44, UomID: 1, TaxIDs: []int64{7, 2}, OriginalID: 9},
		},
	}
}

func TestPayloadBuilder_BuildInvoicePayload(t *testing.T) {
	builder := NewPayloadBuilder()
	mctx := migration.MigrationContext{CompanyID: 1, CompanyCurrency: "EUR", ActingUserID: 2}

	payload, err := builder.BuildInvoicePayload(mctx, sampleHeader(), []migration.LegacyInvoiceLine{sampleLine(9001, 9)}, sampleRefs())

	require.NoError(t, err)
	assert.Equal(t, accounting.MoveTypeOutInvoice, payload.MoveType)
	assert.Equal(t, int64(3), payload.JournalID)
	assert.Equal(t, int64(8), payload.PartnerID)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), payload.InvoiceDate)
	assert.Equal(t, int64(501), payload.OriginalID)
	assert.Equal(t, "SO042", payload.InvoiceOrigin)
	assert.Equal(t, "Thank you", payload.Narration)
	assert.Equal(t, "EUR", payload.CurrencyCode, "legacy currency is replaced by the company currency")
	assert.Equal(t, int64(1), payload.CompanyID)
	assert.Equal(t, int64(2), payload.CreatedBy)

	require.Len(t, payload.Lines, 1)
	line := payload.Lines[0]
	assert.Equal(t, int64(44), line.ProductID)
	assert.True(t, decimal.NewFromInt(3).Equal(line.Quantity))
	assert.True(t, decimal.Zero.Equal(line.Discount))
	assert.True(t, decimal.RequireFromString("10.0").Equal(line.PriceUnit))
	assert.Equal(t, []int64{2, 7}, line.TaxIDs)
	assert.Equal(t, int64(1), line.ProductUomID)
	assert.Equal(t, int64(9001), line.OriginalID)
	assert.Equal(t, "Widget", line.Name)
}

func TestPayloadBuilder_Deterministic(t *testing.T) {
	builder := NewPayloadBuilder()
	mctx := migration.MigrationContext{CompanyID: 1, CompanyCurrency: "EUR"}
	lines := []migration.LegacyInvoiceLine{sampleLine(1, 9), sampleLine(2, 9)}

	first, err := builder.BuildInvoicePayload(mctx, sampleHeader(), lines, sampleRefs())
	require.NoError(t, err)
	second, err := builder.BuildInvoicePayload(mctx, sampleHeader(), lines, sampleRefs())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestPayloadBuilder_MissingProduct(t *testing.T) {
	builder := NewPayloadBuilder()
	mctx := migration.MigrationContext{CompanyCurrency: "EUR"}

	_, err := builder.BuildInvoicePayload(mctx, sampleHeader(), []migration.LegacyInvoiceLine{sampleLine(1, 10)}, sampleRefs())

	var unresolved *migration.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, int64(10), unresolved.LegacyID)
}

func TestPayloadBuilder_CurrencyOverride(t *testing.T) {
	builder := NewPayloadBuilder()
	for _, legacyCurrency := range []string{"USD", "", "GBP"} {
		header := sampleHeader()
		header.Currency = legacyCurrency

		payload, err := builder.BuildInvoicePayload(migration.MigrationContext{CompanyCurrency: "CHF"}, header, nil, sampleRefs())

		require.NoError(t, err)
		assert.Equal(t, "CHF", payload.CurrencyCode)
	}
}
