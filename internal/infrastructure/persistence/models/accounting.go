package models

import (
	"time"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// JournalModel is the persistence model for accounting journals.
type JournalModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null"`
	Code       string `gorm:"type:varchar(16);not null"`
	OriginalID *int64 `gorm:"column:original_id;uniqueIndex:uq_journals_original_id"`
}

// TableName returns the table name for GORM
func (JournalModel) TableName() string {
	return "journals"
}

// ToDomain converts the persistence model to a domain Journal.
func (m *JournalModel) ToDomain() *accounting.Journal {
	return &accounting.Journal{
		ID:         m.ID,
		Name:       m.Name,
		Code:       m.Code,
		OriginalID: OriginalIDValue(m.OriginalID),
	}
}

// FromDomain populates the persistence model from a domain Journal.
func (m *JournalModel) FromDomain(j *accounting.Journal) {
	m.ID = j.ID
	m.Name = j.Name
	m.Code = j.Code
	m.OriginalID = OriginalIDPtr(j.OriginalID)
}

// PartnerModel is the persistence model for customers.
type PartnerModel struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null"`
	OriginalID *int64 `gorm:"column:original_id;uniqueIndex:uq_partners_original_id"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner.
func (m *PartnerModel) ToDomain() *accounting.Partner {
	return &accounting.Partner{
		ID:         m.ID,
		Name:       m.Name,
		OriginalID: OriginalIDValue(m.OriginalID),
	}
}

// FromDomain populates the persistence model from a domain Partner.
func (m *PartnerModel) FromDomain(p *accounting.Partner) {
	m.ID = p.ID
	m.Name = p.Name
	m.OriginalID = OriginalIDPtr(p.OriginalID)
}

// ProductModel is the persistence model for sellable products.
type ProductModel struct {
	BaseModel
	Name       string  `gorm:"type:varchar(200);not null"`
	UomID      int64   `gorm:"column:uom_id;not null"`
	TaxIDs     []int64 `gorm:"column:tax_ids;type:jsonb;serializer:json"`
	OriginalID *int64  `gorm:"column:original_id;uniqueIndex:uq_products_original_id"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *accounting.Product {
	taxIDs := make([]int64, len(m.TaxIDs))
	copy(taxIDs, m.TaxIDs)
	return &accounting.Product{
		ID:         m.ID,
		Name:       m.Name,
		UomID:      m.UomID,
		TaxIDs:     taxIDs,
		OriginalID: OriginalIDValue(m.OriginalID),
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *accounting.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.UomID = p.UomID
	m.TaxIDs = append([]int64{}, p.TaxIDs...)
	m.OriginalID = OriginalIDPtr(p.OriginalID)
}

// InvoiceModel is the persistence model for customer invoices (account moves).
type InvoiceModel struct {
	BaseModel
	MoveType      string                  `gorm:"column:move_type;type:varchar(32);not null"`
	State         accounting.InvoiceState `gorm:"type:varchar(16);not null;default:'draft'"`
	InvoiceDate   time.Time               `gorm:"column:invoice_date;type:date;not null"`
	JournalID     int64                   `gorm:"column:journal_id;not null;index"`
	PartnerID     int64                   `gorm:"column:partner_id;not null;index"`
	InvoiceOrigin string                  `gorm:"column:invoice_origin;type:varchar(200)"`
	Narration     string                  `gorm:"type:text"`
	CurrencyCode  string                  `gorm:"column:currency_code;type:char(3);not null"`
	CompanyID     int64                   `gorm:"column:company_id;not null"`
	CreatedBy     int64                   `gorm:"column:created_by;not null"`
	OriginalID    *int64                  `gorm:"column:original_id;uniqueIndex:uq_invoices_original_id"`
	Lines         []InvoiceLineModel      `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model, including loaded lines, to a domain Invoice.
func (m *InvoiceModel) ToDomain() *accounting.Invoice {
	inv := &accounting.Invoice{
		ID:            m.ID,
		MoveType:      m.MoveType,
		State:         m.State,
		InvoiceDate:   m.InvoiceDate,
		JournalID:     m.JournalID,
		PartnerID:     m.PartnerID,
		InvoiceOrigin: m.InvoiceOrigin,
		Narration:     m.Narration,
		CurrencyCode:  m.CurrencyCode,
		CompanyID:     m.CompanyID,
		CreatedBy:     m.CreatedBy,
		OriginalID:    OriginalIDValue(m.OriginalID),
		CreatedAt:     m.CreatedAt,
		Lines:         make([]accounting.InvoiceLine, len(m.Lines)),
	}
	for i := range m.Lines {
		inv.Lines[i] = *m.Lines[i].ToDomain()
	}
	return inv
}

// InvoiceModelFromPayload creates a draft invoice model, with its lines, from a creation payload.
func InvoiceModelFromPayload(p *accounting.InvoicePayload) *InvoiceModel {
	inv := p.ToInvoice()
	m := &InvoiceModel{
		MoveType:      inv.MoveType,
		State:         inv.State,
		InvoiceDate:   inv.InvoiceDate,
		JournalID:     inv.JournalID,
		PartnerID:     inv.PartnerID,
		InvoiceOrigin: inv.InvoiceOrigin,
		Narration:     inv.Narration,
		CurrencyCode:  inv.CurrencyCode,
		CompanyID:     inv.CompanyID,
		CreatedBy:     inv.CreatedBy,
		OriginalID:    OriginalIDPtr(inv.OriginalID),
		Lines:         make([]InvoiceLineModel, len(inv.Lines)),
	}
	for i := range inv.Lines {
		m.Lines[i].FromDomain(&inv.Lines[i])
	}
	return m
}

// InvoiceLineModel is the persistence model for invoice lines.
type InvoiceLineModel struct {
	BaseModel
	InvoiceID    int64           `gorm:"column:invoice_id;not null;index"`
	ProductID    int64           `gorm:"column:product_id;not null;index"`
	Name         string          `gorm:"type:text"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PriceUnit    decimal.Decimal `gorm:"column:price_unit;type:decimal(18,4);not null;default:0"`
	TaxIDs       []int64         `gorm:"column:tax_ids;type:jsonb;serializer:json"`
	ProductUomID int64           `gorm:"column:product_uom_id;not null"`
	OriginalID   *int64          `gorm:"column:original_id;uniqueIndex:uq_invoice_lines_original_id"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain InvoiceLine.
func (m *InvoiceLineModel) ToDomain() *accounting.InvoiceLine {
	return &accounting.InvoiceLine{
		ID:           m.ID,
		InvoiceID:    m.InvoiceID,
		ProductID:    m.ProductID,
		Name:         m.Name,
		Quantity:     m.Quantity,
		Discount:     m.Discount,
		PriceUnit:    m.PriceUnit,
		TaxIDs:       append([]int64{}, m.TaxIDs...),
		ProductUomID: m.ProductUomID,
		OriginalID:   OriginalIDValue(m.OriginalID),
	}
}

// FromDomain populates the persistence model from a domain InvoiceLine.
func (m *InvoiceLineModel) FromDomain(l *accounting.InvoiceLine) {
	m.ID = l.ID
	m.InvoiceID = l.InvoiceID
	m.ProductID = l.ProductID
	m.Name = l.Name
	m.Quantity = l.Quantity
	m.Discount = l.Discount
	m.PriceUnit = l.PriceUnit
	m.TaxIDs = append([]int64{}, l.TaxIDs...)
	m.ProductUomID = l.ProductUomID
	m.OriginalID = OriginalIDPtr(l.OriginalID)
}

// AttachmentModel is the persistence model for stored file attachments.
type AttachmentModel struct {
	BaseModel
	ResModel   string `gorm:"column:res_model;type:varchar(64);not null;index:idx_attachments_res"`
	ResID      int64  `gorm:"column:res_id;not null;index:idx_attachments_res"`
	Name       string `gorm:"type:varchar(255);not null"`
	MimeType   string `gorm:"column:mime_type;type:varchar(100)"`
	FileSize   int64  `gorm:"column:file_size;not null;default:0"`
	Checksum   string `gorm:"type:varchar(64)"`
	StorageKey string `gorm:"column:storage_key;type:varchar(500);not null"`
	OriginalID *int64 `gorm:"column:original_id;uniqueIndex:uq_attachments_original_id"`
}

// TableName returns the table name for GORM
func (AttachmentModel) TableName() string {
	return "attachments"
}

// ToDomain converts the persistence model to a domain Attachment.
func (m *AttachmentModel) ToDomain() *accounting.Attachment {
	return &accounting.Attachment{
		ID:         m.ID,
		ResModel:   m.ResModel,
		ResID:      m.ResID,
		Name:       m.Name,
		MimeType:   m.MimeType,
		FileSize:   m.FileSize,
		Checksum:   m.Checksum,
		StorageKey: m.StorageKey,
		OriginalID: OriginalIDValue(m.OriginalID),
	}
}

// FromDomain populates the persistence model from a domain Attachment.
func (m *AttachmentModel) FromDomain(a *accounting.Attachment) {
	m.ID = a.ID
	m.ResModel = a.ResModel
	m.ResID = a.ResID
	m.Name = a.Name
	m.MimeType = a.MimeType
	m.FileSize = a.FileSize
	m.Checksum = a.Checksum
	m.StorageKey = a.StorageKey
	m.OriginalID = OriginalIDPtr(a.OriginalID)
}
