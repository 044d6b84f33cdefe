package migration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/morrillo/blo-migration/internal/domain/accounting"
	"github.com/morrillo/blo-migration/internal/domain/shared"
)

// Error codes reported per invoice and at the run boundary
const (
	ErrCodeConfiguration       = "CONFIGURATION_ERROR"
	ErrCodeConnection          = "CONNECTION_ERROR"
	ErrCodeQuery               = "QUERY_ERROR"
	ErrCodeUnresolvedReference = "UNRESOLVED_REFERENCE"
	ErrCodeDataIntegrity       = "DATA_INTEGRITY"
	ErrCodeCreateFailed        = "CREATE_FAILED"
	ErrCodeRunInProgress       = "RUN_IN_PROGRESS"
	ErrCodeAttachmentContent   = "ATTACHMENT_CONTENT_MISSING"
	ErrCodeUnknown             = "UNKNOWN"
)

// ErrRunInProgress is returned when another migration run holds the run lock
var ErrRunInProgress = shared.NewDomainError(ErrCodeRunInProgress, "another invoice migration run is in progress")

// ErrAttachmentContentMissing is returned for a legacy attachment whose content
// the source did not return, such as a file kept in the legacy filestore
var ErrAttachmentContentMissing = shared.NewDomainError(ErrCodeAttachmentContent, "attachment content not available from source")

// ConfigurationError reports missing or malformed connection parameters
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, describeParams("missing", e.Missing))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, describeParams("invalid", e.Invalid))
	}
	if len(parts) == 0 {
		return "invalid connection configuration"
	}
	return strings.Join(parts, "; ")
}

func describeParams(adjective string, params []string) string {
	if len(params) == 1 {
		return fmt.Sprintf("%s connection parameter %s", adjective, params[0])
	}
	return fmt.Sprintf("%s connection parameters %s", adjective, strings.Join(params, ", "))
}

// ConnectionError reports that the legacy source could not be reached or
// did not accept the credentials
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot connect to %s", e.Target)
	}
	return fmt.Sprintf("cannot connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError reports a failed read against the legacy source
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// UnresolvedReferenceError reports a legacy id with no local counterpart
type UnresolvedReferenceError struct {
	Kind     accounting.EntityKind
	LegacyID int64
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("there is no %s for original ID %d", e.Kind, e.LegacyID)
}

// DataIntegrityError reports a legacy id matched by more than one local record
type DataIntegrityError struct {
	Kind     accounting.EntityKind
	LegacyID int64
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("more than one %s carries original ID %d", e.Kind, e.LegacyID)
}

// IsRunFatal reports whether err must stop the whole run rather than a single invoice
func IsRunFatal(err error) bool {
	var cfgErr *ConfigurationError
	var connErr *ConnectionError
	var queryErr *QueryError
	return errors.As(err, &cfgErr) ||
		errors.As(err, &connErr) ||
		errors.As(err, &queryErr) ||
		errors.Is(err, ErrRunInProgress)
}

// ErrorCode maps an error of the taxonomy to its code
func ErrorCode(err error) string {
	var cfgErr *ConfigurationError
	var connErr *ConnectionError
	var queryErr *QueryError
	var unresolvedErr *UnresolvedReferenceError
	var integrityErr *DataIntegrityError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return ErrCodeConfiguration
	case errors.As(err, &connErr):
		return ErrCodeConnection
	case errors.As(err, &queryErr):
		return ErrCodeQuery
	case errors.As(err, &unresolvedErr):
		return ErrCodeUnresolvedReference
	case errors.As(err, &integrityErr):
		return ErrCodeDataIntegrity
	default:
		if code, ok := shared.CodeOf(err); ok {
			return code
		}
		return ErrCodeUnknown
	}
}
