package accounting

import "slices"

// Product is a sellable product of the target company.
// Its tax set and unit of measure are applied to every migrated invoice line
// that references it.
type Product struct {
	ID         int64
	Name       string
	UomID      int64
	TaxIDs     []int64
	OriginalID int64
}

// SortedTaxIDs returns a sorted copy of the product's customer taxes
func (p *Product) SortedTaxIDs() []int64 {
	ids := make([]int64, len(p.TaxIDs))
	copy(ids, p.TaxIDs)
	slices.Sort(ids)
	return slices.Compact(ids)
}
