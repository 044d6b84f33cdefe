// Package sqlsource reads legacy invoices with direct read-only queries
// against the legacy PostgreSQL database.
package sqlsource
