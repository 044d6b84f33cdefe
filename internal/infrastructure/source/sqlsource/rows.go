package sqlsource

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

type invoiceRow struct {
	ID          int64          `db:"id"`
	Type        string         `db:"type"`
	State       string         `db:"state"`
	DateInvoice sql.NullTime   `db:"date_invoice"`
	JournalID   sql.NullInt64  `db:"journal_id"`
	PartnerID   sql.NullInt64  `db:"partner_id"`
	Origin      sql.NullString `db:"origin"`
	Comment     sql.NullString `db:"comment"`
	Currency    sql.NullString `db:"currency"`
}

func (r invoiceRow) toLegacy() *migration.LegacyInvoiceHeader {
	return &migration.LegacyInvoiceHeader{
		LegacyID:        r.ID,
		MoveType:        r.Type,
		State:           r.State,
		InvoiceDate:     r.DateInvoice.Time,
		LegacyJournalID: r.JournalID.Int64,
		LegacyPartnerID: r.PartnerID.Int64,
		Origin:          r.Origin.String,
		Comment:         r.Comment.String,
		Currency:        r.Currency.String,
	}
}

type lineRow struct {
	ID        int64               `db:"id"`
	InvoiceID int64               `db:"invoice_id"`
	ProductID sql.NullInt64       `db:"product_id"`
	Quantity  decimal.NullDecimal `db:"quantity"`
	Discount  decimal.NullDecimal `db:"discount"`
	PriceUnit decimal.NullDecimal `db:"price_unit"`
	Name      sql.NullString      `db:"name"`
}

func (r lineRow) toLegacy() migration.LegacyInvoiceLine {
	return migration.LegacyInvoiceLine{
		LegacyLineID:    r.ID,
		LegacyInvoiceID: r.InvoiceID,
		LegacyProductID: r.ProductID.Int64,
		Quantity:        r.Quantity.Decimal,
		Discount:        r.Discount.Decimal,
		UnitPrice:       r.PriceUnit.Decimal,
		Name:            r.Name.String,
	}
}

type attachmentRow struct {
	ID       int64          `db:"id"`
	Name     sql.NullString `db:"name"`
	MimeType   sql.NullString `db:"mimetype"`
	StoreFname sql.NullString `db:"store_fname"`
	Data       []byte         `db:"db_datas"`
}

func (r attachmentRow) toLegacy() migration.LegacyAttachment {
	return migration.LegacyAttachment{
		LegacyID: r.ID,
		Name:     r.Name.String,
		MimeType:   r.MimeType.String,
		Data:       r.Data,
		StoreFname: r.StoreFname.String,
	}
}
