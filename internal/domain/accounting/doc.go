// Package accounting contains the target-store model of the migration.
// It describes the records that already exist locally (journals, partners,
// products) and the records the migration creates (invoices, invoice lines,
// attachments).
//
// Every record carries an OriginalID: the identifier it had in the legacy
// source. OriginalID is the correlation key used to resolve legacy references
// and to keep the migration idempotent. Zero means the record was not migrated.
//
// Design Pattern: Ports & Adapters
//   - Repository ports are defined here, one per entity kind
//   - Adapters (gorm implementations) live in infrastructure/persistence
package accounting
