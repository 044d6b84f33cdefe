package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// ResolvedReferences holds the local records a legacy invoice points at
type ResolvedReferences struct {
	Journal *accounting.Journal
	Partner *accounting.Partner
	// Products is keyed by legacy product id
	Products map[int64]*accounting.Product
}

// Product returns the resolved product for a legacy product id
func (r *ResolvedReferences) Product(legacyProductID int64) (*accounting.Product, bool) {
	p, ok := r.Products[legacyProductID]
	return p, ok
}

// CorrelationResolver maps legacy ids to already-migrated local records by original ID
type CorrelationResolver struct {
	journals accounting.JournalRepository
	partners accounting.PartnerRepository
	products accounting.ProductRepository
}

// NewCorrelationResolver creates a new CorrelationResolver
func NewCorrelationResolver(
	journals accounting.JournalRepository,
	partners accounting.PartnerRepository,
	products accounting.ProductRepository,
) *CorrelationResolver {
	return &CorrelationResolver{
		journals: journals,
		partners: partners,
		products: products,
	}
}

// ResolveJournal returns the local journal carrying the legacy id
func (r *CorrelationResolver) ResolveJournal(ctx context.Context, legacyID int64) (*accounting.Journal, error) {
	journal, err := r.journals.FindByOriginalID(ctx, legacyID)
	if err != nil {
		return nil, correlationError(accounting.EntityJournal, legacyID, err)
	}
	return journal, nil
}

// ResolvePartner returns the local partner carrying the legacy id
func (r *CorrelationResolver) ResolvePartner(ctx context.Context, legacyID int64) (*accounting.Partner, error) {
	partner, err := r.partners.FindByOriginalID(ctx, legacyID)
	if err != nil {
		return nil, correlationError(accounting.EntityPartner, legacyID, err)
	}
	return partner, nil
}

// ResolveProduct returns the local product carrying the legacy id
func (r *CorrelationResolver) ResolveProduct(ctx context.Context, legacyID int64) (*accounting.Product, error) {
	product, err := r.products.FindByOriginalID(ctx, legacyID)
	if err != nil {
		return nil, correlationError(accounting.EntityProduct, legacyID, err)
	}
	return product, nil
}

// ResolveInvoiceReferences resolves the journal, the partner and every distinct
// line product of a legacy invoice. It stops at the first failure so nothing is
// built for an invoice with a dangling reference.
func (r *CorrelationResolver) ResolveInvoiceReferences(
	ctx context.Context,
	header *migration.LegacyInvoiceHeader,
	lines []migration.LegacyInvoiceLine,
) (*ResolvedReferences, error) {
	journal, err := r.ResolveJournal(ctx, header.LegacyJournalID)
	if err != nil {
		return nil, err
	}

	partner, err := r.ResolvePartner(ctx, header.LegacyPartnerID)
	if err != nil {
		return nil, err
	}

	refs := &ResolvedReferences{
		Journal:  journal,
		Partner:  partner,
		Products: make(map[int64]*accounting.Product, len(lines)),
	}
	for _, line := range lines {
		if _, ok := refs.Products[line.LegacyProductID]; ok {
			continue
		}
		product, err := r.ResolveProduct(ctx, line.LegacyProductID)
		if err != nil {
			return nil, err
		}
		refs.Products[line.LegacyProductID] = product
	}

	return refs, nil
}

func correlationError(kind accounting.EntityKind, legacyID int64, err error) error {
	switch {
	case errors.Is(err, accounting.ErrNotFound):
		return &migration.UnresolvedReferenceError{Kind: kind, LegacyID: legacyID}
	case errors.Is(err, accounting.ErrAmbiguousOriginalID):
		return &migration.DataIntegrityError{Kind: kind, LegacyID: legacyID}
	default:
		return fmt.Errorf("resolve %s %d: %w", kind, legacyID, err)
	}
}
