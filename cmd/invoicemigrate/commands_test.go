package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/morrillo/blo-migration/internal/domain/migration"
	"github.com/morrillo/blo-migration/internal/infrastructure/report"
)

type fakeRunner struct {
	report *migration.Report
	err    error
	got    []runRequest
	closed bool
}

func (f *fakeRunner) Run(_ context.Context, req runRequest) (*migration.Report, error) {
	f.got = append(f.got, req)
	return f.report, f.err
}

func (f *fakeRunner) Close(context.Context) error {
	f.closed = true
	return nil
}

func sampleReport(mode migration.Mode) *migration.Report {
	r := migration.NewReport(mode)
	r.Eligible = 3
	r.Add(migration.InvoiceOutcome{LegacyID: 1, State: migration.StateCreated, LocalID: 10, LineCount: 2})
	r.Add(migration.InvoiceOutcome{LegacyID: 2, State: migration.StateSkipped, LocalID: 11})
	r.Add(migration.InvoiceOutcome{
		LegacyID:  3,
		State:     migration.StateFailed,
		ErrorCode: migration.ErrCodeUnresolvedReference,
		Reason:    "partner 9 has no migrated counterpart",
	})
	r.Finish()
	return r
}

func runCommand(t *testing.T, fake *fakeRunner, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(func(context.Context) (runner, error) { return fake, nil })
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRPCCommand_PrintsSummary(t *testing.T) {
	fake := &fakeRunner{report: sampleReport(migration.ModeRPC)}

	out, err := runCommand(t, fake, "rpc")

	require.NoError(t, err)
	require.Len(t, fake.got, 1)
	assert.Equal(t, migration.ModeRPC, fake.got[0].Mode)
	assert.Nil(t, fake.got[0].Attachments, "unset flag keeps the configured default")
	assert.Contains(t, out, "3 eligible, 1 created, 1 skipped, 1 failed")
	assert.Contains(t, out, "invoice 3: UNRESOLVED_REFERENCE")
	assert.True(t, fake.closed)
}

func TestSQLCommand_Flags(t *testing.T) {
	fake := &fakeRunner{report: sampleReport(migration.ModeSQL)}

	_, err := runCommand(t, fake, "sql", "--attachments=false", "--user-id", "42")

	require.NoError(t, err)
	require.Len(t, fake.got, 1)
	req := fake.got[0]
	assert.Equal(t, migration.ModeSQL, req.Mode)
	require.NotNil(t, req.Attachments)
	assert.False(t, *req.Attachments)
	assert.EqualValues(t, 42, req.UserID)
}

func TestCommand_WritesReport(t *testing.T) {
	fake := &fakeRunner{report: sampleReport(migration.ModeRPC)}
	path := filepath.Join(t.TempDir(), "run.xlsx")

	_, err := runCommand(t, fake, "rpc", "--report", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.OutcomesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 4, "header plus one row per invoice")
}

func TestCommand_AbortedRunFails(t *testing.T) {
	abortErr := &migration.ConnectionError{Target: "legacy", Err: errors.New("refused")}
	rep := migration.NewReport(migration.ModeSQL)
	rep.Abort(abortErr)
	fake := &fakeRunner{report: rep, err: abortErr}

	out, err := runCommand(t, fake, "sql")

	require.Error(t, err)
	assert.Contains(t, out, "run aborted (CONNECTION_ERROR)")
	assert.True(t, fake.closed)
}

func TestCommand_RunnerInitFailure(t *testing.T) {
	initErr := &migration.ConfigurationError{Missing: []string{"company currency"}}
	var out bytes.Buffer
	cmd := newRootCommand(func(context.Context) (runner, error) { return nil, initErr })
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"rpc"})

	err := cmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, initErr)
	assert.Contains(t, out.String(), "company currency")
}

func TestCommand_RejectsUnknownMode(t *testing.T) {
	_, err := runCommand(t, &fakeRunner{}, "xmlrpc")
	assert.Error(t, err)
}
