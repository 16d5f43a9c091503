package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExportTimesheetSummaryCSV renders the per-user summary with a stable
// row order so repeated exports diff cleanly.
func ExportTimesheetSummaryCSV(summary map[string]UserSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"user_id", "total_hours", "weeks"}); err != nil {
		return nil, err
	}
	for _, userID := range sortedKeys(summary) {
		row := summary[userID]
		if err := w.Write([]string{
			userID,
			fmt.Sprintf("%.2f", row.TotalHours),
			fmt.Sprintf("%d", row.Weeks),
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportProjectHoursCSV(hours map[string]float64) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"project_code", "hours"}); err != nil {
		return nil, err
	}
	for _, code := range sortedKeys(hours) {
		if err := w.Write([]string{code, fmt.Sprintf("%.2f", hours[code])}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX produces a workbook with one sheet per report.
func ExportXLSX(summary map[string]UserSummary, hours map[string]float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Timesheet Summary"
	f.SetSheetName("Sheet1", summarySheet)
	f.SetSheetRow(summarySheet, "A1", &[]any{"User ID", "Total Hours", "Weeks"})
	for i, userID := range sortedKeys(summary) {
		row := summary[userID]
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(summarySheet, cell, &[]any{userID, row.TotalHours, row.Weeks})
	}

	const projectSheet = "Project Hours"
	if _, err := f.NewSheet(projectSheet); err != nil {
		return nil, err
	}
	f.SetSheetRow(projectSheet, "A1", &[]any{"Project Code", "Hours"})
	for i, code := range sortedKeys(hours) {
		cell := fmt.Sprintf("A%d", i+2)
		f.SetSheetRow(projectSheet, cell, &[]any{code, hours[code]})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
