package accounting

import "context"

// Every repository below is keyed by original ID. FindByOriginalID returns
// ErrNotFound when no record matches and ErrAmbiguousOriginalID when more than
// one does. Create returns ErrDuplicateOriginalID when the original ID is taken.

// JournalRepository defines the persistence port for journals
type JournalRepository interface {
	FindByOriginalID(ctx context.Context, originalID int64) (*Journal, error)
	Create(ctx context.Context, journal *Journal) error
}

// PartnerRepository defines the persistence port for partners
type PartnerRepository interface {
	FindByOriginalID(ctx context.Context, originalID int64) (*Partner, error)
	Create(ctx context.Context, partner *Partner) error
}

// ProductRepository defines the persistence port for products
type ProductRepository interface {
	FindByOriginalID(ctx context.Context, originalID int64) (*Product, error)
	Create(ctx context.Context, product *Product) error
}

// InvoiceRepository defines the persistence port for invoices.
// Create persists the invoice and all of its lines in a single transaction.
type InvoiceRepository interface {
	FindByOriginalID(ctx context.Context, originalID int64) (*Invoice, error)
	Create(ctx context.Context, payload *InvoicePayload) (*Invoice, error)
}

// AttachmentRepository defines the persistence port for attachments
type AttachmentRepository interface {
	FindByOriginalID(ctx context.Context, originalID int64) (*Attachment, error)
	Create(ctx context.Context, attachment *Attachment) error
}
