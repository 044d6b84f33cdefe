package migration

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceState is the state of one legacy invoice within a run
type InvoiceState string

const (
	StateFetched  InvoiceState = "fetched"
	StateResolved InvoiceState = "resolved"
	StateBuilt    InvoiceState = "built"
	StateCreated  InvoiceState = "created"
	StateSkipped  InvoiceState = "skipped"
	StateFailed   InvoiceState = "failed"
)

// IsTerminal returns true for created, skipped and failed
func (s InvoiceState) IsTerminal() bool {
	return s == StateCreated || s == StateSkipped || s == StateFailed
}

// InvoiceOutcome is the result of migrating one legacy invoice
type InvoiceOutcome struct {
	LegacyID          int64        `json:"legacy_id"`
	State             InvoiceState `json:"state"`
	LocalID           int64        `json:"local_id,omitempty"`
	LineCount         int          `json:"line_count,omitempty"`
	ErrorCode         string       `json:"error_code,omitempty"`
	Reason            string       `json:"reason,omitempty"`
	AttachmentsCopied int          `json:"attachments_copied,omitempty"`
	AttachmentError   string       `json:"attachment_error,omitempty"`
}

// Fail moves the outcome to the failed state, recording err as the reason
func (o *InvoiceOutcome) Fail(err error) {
	o.State = StateFailed
	o.ErrorCode = ErrorCode(err)
	o.Reason = err.Error()
}

// Report is the per-run accumulation of invoice outcomes
type Report struct {
	RunID      uuid.UUID        `json:"run_id"`
	Mode       Mode             `json:"mode"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Eligible   int              `json:"eligible"`
	Outcomes   []InvoiceOutcome `json:"outcomes"`
	Aborted    bool             `json:"aborted"`
	AbortError string           `json:"abort_error,omitempty"`
}

// NewReport creates an empty report for a run
func NewReport(mode Mode) *Report {
	return &Report{
		RunID:     uuid.New(),
		Mode:      mode,
		StartedAt: time.Now(),
		Outcomes:  make([]InvoiceOutcome, 0),
	}
}

// Add appends an outcome
func (r *Report) Add(o InvoiceOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Abort marks the run as stopped by a run-fatal error
func (r *Report) Abort(err error) {
	r.Aborted = true
	r.AbortError = err.Error()
	r.Finish()
}

// Finish stamps the end of the run
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// Created returns the number of invoices created in this run
func (r *Report) Created() int {
	return r.count(StateCreated)
}

// Skipped returns the number of invoices found already migrated
func (r *Report) Skipped() int {
	return r.count(StateSkipped)
}

// Failed returns the number of invoices that could not be migrated
func (r *Report) Failed() int {
	return r.count(StateFailed)
}

// Failures returns the failed outcomes
func (r *Report) Failures() []InvoiceOutcome {
	failures := make([]InvoiceOutcome, 0)
	for _, o := range r.Outcomes {
		if o.State == StateFailed {
			failures = append(failures, o)
		}
	}
	return failures
}

// Duration returns the wall time of the run
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *Report) count(state InvoiceState) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == state {
			n++
		}
	}
	return n
}
