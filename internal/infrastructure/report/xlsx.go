// Package report renders migration run reports for operators.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/morrillo/blo-migration/internal/domain/migration"
)

// Sheet names of the workbook written by WriteXLSX
const (
	SummarySheet  = "Summary"
	OutcomesSheet = "Invoices"
)

var outcomeHeader = []any{
	"Legacy ID", "State", "Local ID", "Lines", "Error code", "Reason", "Attachments copied", "Attachment error",
}

// WriteXLSX writes r as a workbook with a run summary sheet and one row per invoice outcome
func WriteXLSX(r *migration.Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(OutcomesSheet); err != nil {
		return fmt.Errorf("create outcomes sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeSummary(f, r, bold); err != nil {
		return err
	}
	if err := writeOutcomes(f, r, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r *migration.Report, bold int) error {
	rows := [][]any{
		{"Run ID", r.RunID.String()},
		{"Mode", string(r.Mode)},
		{"Started at", r.StartedAt.UTC().Format(time.RFC3339)},
		{"Finished at", formatTime(r.FinishedAt)},
		{"Duration (s)", r.Duration().Seconds()},
		{"Eligible", r.Eligible},
		{"Created", r.Created()},
		{"Skipped", r.Skipped()},
		{"Failed", r.Failed()},
		{"Aborted", yesNo(r.Aborted)},
	}
	if r.AbortError != "" {
		rows = append(rows, []any{"Abort error", r.AbortError})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(1, len(rows))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", last, bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 16)
}

func writeOutcomes(f *excelize.File, r *migration.Report, bold int) error {
	if err := f.SetSheetRow(OutcomesSheet, "A1", &outcomeHeader); err != nil {
		return fmt.Errorf("write outcomes header: %w", err)
	}
	headerEnd, err := excelize.CoordinatesToCellName(len(outcomeHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(OutcomesSheet, "A1", headerEnd, bold); err != nil {
		return fmt.Errorf("style outcomes header: %w", err)
	}

	for i, o := range r.Outcomes {
		row := []any{
			o.LegacyID,
			string(o.State),
			optionalID(o.LocalID),
			o.LineCount,
			o.ErrorCode,
			o.Reason,
			o.AttachmentsCopied,
			o.AttachmentError,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(OutcomesSheet, cell, &row); err != nil {
			return fmt.Errorf("write outcome of invoice %d: %w", o.LegacyID, err)
		}
	}

	if err := f.SetPanes(OutcomesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze outcomes header: %w", err)
	}
	return f.SetColWidth(OutcomesSheet, "F", "F", 60)
}

func optionalID(id int64) any {
	if id == 0 {
		return ""
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
