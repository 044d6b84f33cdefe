package accounting

// EntityKind identifies the kind of record an original ID refers to
type EntityKind string

const (
	EntityJournal     EntityKind = "journal"
	EntityPartner     EntityKind = "partner"
	EntityProduct     EntityKind = "product"
	EntityInvoice     EntityKind = "invoice"
	EntityInvoiceLine EntityKind = "invoice_line"
	EntityAttachment  EntityKind = "attachment"
)

// String returns the string representation of the kind
func (k EntityKind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the known entity kinds
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityJournal, EntityPartner, EntityProduct, EntityInvoice, EntityInvoiceLine, EntityAttachment:
		return true
	}
	return false
}
