// Package migration contains the legacy-side model of the invoice migration:
// the read-only snapshots taken from the legacy instance, the SourceReader port
// that produces them, the run context and the error taxonomy.
//
// Error taxonomy:
//   - ConfigurationError: required connection parameters are missing. The run never starts.
//   - ConnectionError: the legacy source cannot be reached or authenticated. The run aborts.
//   - QueryError: a read against the legacy source failed. The run aborts.
//   - UnresolvedReferenceError: a legacy id has no local counterpart. Only the current invoice fails.
//   - DataIntegrityError: a legacy id matches more than one local record. Only the current invoice fails.
package migration
