package sqlsource

import (
	"github.com/huandu/go-sqlbuilder"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

const (
	tableInvoice     = "account_invoice"
	tableInvoiceLine = "account_invoice_line"
	tableAttachment  = "ir_attachment"
	tableCurrency    = "res_currency"
)

func eligibleInvoiceIDsQuery() (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id").From(tableInvoice)
	sb.Where(
		sb.Equal("type", migration.LegacyTypeCustomerInvoice),
		sb.In("state", sqlbuilder.Flatten(migration.EligibleStates())...),
	)
	sb.OrderBy("id ASC")
	return sb.Build()
}

func invoiceQuery(legacyID int64) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(
		"i.id",
		"i.type",
		"i.state",
		"i.date_invoice",
		"i.journal_id",
		"i.partner_id",
		"i.origin",
		"i.comment",
		sb.As("c.name", "currency"),
	)
	sb.From(sb.As(tableInvoice, "i"))
	sb.JoinWithOption(sqlbuilder.LeftJoin, sb.As(tableCurrency, "c"), "c.id = i.currency_id")
	sb.Where(sb.Equal("i.id", legacyID))
	return sb.Build()
}

func linesQuery(legacyID int64) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "invoice_id", "product_id", "quantity", "discount", "price_unit", "name")
	sb.From(tableInvoiceLine)
	sb.Where(sb.Equal("invoice_id", legacyID))
	sb.OrderBy("id ASC")
	return sb.Build()
}

func attachmentsQuery(legacyID int64) (string, []any) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "mimetype", "store_fname", "db_datas")
	sb.From(tableAttachment)
	sb.Where(
		sb.Equal("res_model", "account.invoice"),
		sb.Equal("res_id", legacyID),
	)
	sb.OrderBy("id ASC")
	return sb.Build()
}
