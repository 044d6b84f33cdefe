package migration

// MigrationContext carries the identity of the operator's company for one run.
// Migrated invoices adopt CompanyCurrency regardless of the legacy currency.
type MigrationContext struct {
	CompanyID       int64
	CompanyCurrency string
	ActingUserID    int64
}

// Validate checks the context is usable for a run
func (c MigrationContext) Validate() error {
	if c.CompanyCurrency == "" {
		return &ConfigurationError{Missing: []string{"company currency"}}
	}
	return nil
}
