package rpcsource

import (
	"context"
	"fmt"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

const (
	modelInvoice     = "account.invoice"
	modelInvoiceLine = "account.invoice.line"
	modelAttachment  = "ir.attachment"
)

var (
	invoiceFields    = []string{"type", "state", "date_invoice", "journal_id", "partner_id", "origin", "comment", "currency_id"}
	lineFields       = []string{"invoice_id", "product_id", "quantity", "discount", "price_unit", "name"}
	attachmentFields = []string{"name", "mimetype", "datas"}
)

type invoiceRecord struct {
	ID          int64      `json:"id"`
	Type        odooString `json:"type"`
	State       odooString `json:"state"`
	DateInvoice odooDate   `json:"date_invoice"`
	Journal     many2one   `json:"journal_id"`
	Partner     many2one   `json:"partner_id"`
	Origin      odooString `json:"origin"`
	Comment     odooString `json:"comment"`
	Currency    many2one   `json:"currency_id"`
}

type lineRecord struct {
	ID        int64       `json:"id"`
	Invoice   many2one    `json:"invoice_id"`
	Product   many2one    `json:"product_id"`
	Quantity  odooDecimal `json:"quantity"`
	Discount  odooDecimal `json:"discount"`
	PriceUnit odooDecimal `json:"price_unit"`
	Name      odooString  `json:"name"`
}

type attachmentRecord struct {
	ID       int64      `json:"id"`
	Name     odooString `json:"name"`
	MimeType odooString `json:"mimetype"`
	Data     odooBinary `json:"datas"`
}

// Reader implements migration.SourceReader over an authenticated RPC session
type Reader struct {
	client  *Client
	session Session
}

// NewReader creates a reader for an already authenticated session
func NewReader(client *Client, session Session) *Reader {
	return &Reader{client: client, session: session}
}

// ListEligibleInvoiceIDs returns customer invoices in the open or paid state, by id
func (r *Reader) ListEligibleInvoiceIDs(ctx context.Context) ([]int64, error) {
	domain := []any{
		[]any{"type", "=", migration.LegacyTypeCustomerInvoice},
		[]any{"state", "in", migration.EligibleStates()},
	}
	var ids []int64
	if err := r.execute(ctx, modelInvoice, "search", []any{domain}, map[string]any{"order": "id asc"}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadInvoice reads one invoice header
func (r *Reader) ReadInvoice(ctx context.Context, legacyID int64) (*migration.LegacyInvoiceHeader, error) {
	var records []invoiceRecord
	kwargs := map[string]any{"fields": invoiceFields}
	if err := r.execute(ctx, modelInvoice, "read", []any{[]int64{legacyID}}, kwargs, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &migration.QueryError{
			Query: modelInvoice + ".read",
			Err:   fmt.Errorf("invoice %d does not exist", legacyID),
		}
	}

	rec := records[0]
	return &migration.LegacyInvoiceHeader{
		LegacyID:        rec.ID,
		MoveType:        string(rec.Type),
		State:           string(rec.State),
		InvoiceDate:     rec.DateInvoice.Time,
		LegacyJournalID: rec.Journal.ID,
		LegacyPartnerID: rec.Partner.ID,
		Origin:          string(rec.Origin),
		Comment:         string(rec.Comment),
		Currency:        rec.Currency.Name,
	}, nil
}

// ReadLines reads the lines of one invoice, by id
func (r *Reader) ReadLines(ctx context.Context, legacyID int64) ([]migration.LegacyInvoiceLine, error) {
	var records []lineRecord
	domain := []any{[]any{"invoice_id", "=", legacyID}}
	kwargs := map[string]any{"fields": lineFields, "order": "id asc"}
	if err := r.execute(ctx, modelInvoiceLine, "search_read", []any{domain}, kwargs, &records); err != nil {
		return nil, err
	}

	lines := make([]migration.LegacyInvoiceLine, len(records))
	for i, rec := range records {
		lines[i] = migration.LegacyInvoiceLine{
			LegacyLineID:    rec.ID,
			LegacyInvoiceID: legacyID,
			LegacyProductID: rec.Product.ID,
			Quantity:        rec.Quantity.Decimal,
			Discount:        rec.Discount.Decimal,
			UnitPrice:       rec.PriceUnit.Decimal,
			Name:            string(rec.Name),
		}
	}
	return lines, nil
}

// ListAttachments reads the files attached to one invoice, content included
func (r *Reader) ListAttachments(ctx context.Context, legacyID int64) ([]migration.LegacyAttachment, error) {
	var records []attachmentRecord
	domain := []any{
		[]any{"res_model", "=", modelInvoice},
		[]any{"res_id", "=", legacyID},
	}
	kwargs := map[string]any{"fields": attachmentFields, "order": "id asc"}
	if err := r.execute(ctx, modelAttachment, "search_read", []any{domain}, kwargs, &records); err != nil {
		return nil, err
	}

	attachments := make([]migration.LegacyAttachment, len(records))
	for i, rec := range records {
		attachments[i] = migration.LegacyAttachment{
			LegacyID: rec.ID,
			Name:     string(rec.Name),
			MimeType: string(rec.MimeType),
			Data:     rec.Data,
		}
	}
	return attachments, nil
}

// Close drops idle connections; the RPC protocol holds no server-side session
func (r *Reader) Close() error {
	r.client.httpClient.CloseIdleConnections()
	return nil
}

func (r *Reader) execute(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	if err := r.client.ExecuteKw(ctx, r.session, model, method, args, kwargs, out); err != nil {
		return &migration.QueryError{Query: model + "." + method, Err: err}
	}
	return nil
}

var _ migration.SourceReader = (*Reader)(nil)
