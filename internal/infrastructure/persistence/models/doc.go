// Package models contains GORM persistence models for the target accounting store.
// Domain entities in internal/domain/accounting stay free of ORM tags; each model
// here maps one table and converts with ToDomain / FromDomain.
//
// Every migrated table carries a nullable, uniquely indexed original_id column
// holding the identifier the record had in the legacy system.
//
// Structure:
// - base.go: BaseModel and original_id helpers
// - accounting.go: journals, partners, products, invoices, invoice lines, attachments
// - config_parameter.go: key/value configuration parameters
package models
