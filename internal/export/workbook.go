// Package export renders reports as spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"finance-tracker-backend/internal/core"
)

const (
	SummarySheet   = "Summary"
	BreakdownSheet = "Breakdown"

	// ContentType is the MIME type of the workbooks produced here.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename suggests a download name for r.
func Filename(r core.Report) string {
	return fmt.Sprintf("report-%s-%s.xlsx", r.Type, r.Period)
}

// ReportWorkbook renders r as an XLSX workbook with a summary sheet and a per-category
// expense breakdown sheet in breakdown order.
func ReportWorkbook(r core.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(BreakdownSheet); err != nil {
		return nil, fmt.Errorf("create breakdown sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#667eea"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summary := [][]any{
		{"Report ID", r.ID},
		{"Type", string(r.Type)},
		{"Period", r.Period},
		{"Total Income", r.TotalIncome.InexactFloat64()},
		{"Total Expenses", r.TotalExpenses.InexactFloat64()},
		{"Net Income", r.NetIncome.InexactFloat64()},
		{"Generated At", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Field", "Value"}); err != nil {
		return nil, err
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row: %w", err)
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle)
	_ = f.SetCellStyle(SummarySheet, "B5", "B7", moneyStyle)
	_ = f.SetColWidth(SummarySheet, "A", "A", 18)
	_ = f.SetColWidth(SummarySheet, "B", "B", 30)

	if err := f.SetSheetRow(BreakdownSheet, "A1", &[]any{"Category", "Amount", "Percentage"}); err != nil {
		return nil, err
	}
	for i, line := range r.CategoryBreakdown {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			categoryName(line.Category),
			line.Amount.InexactFloat64(),
			line.Percentage.Round(2).InexactFloat64(),
		}
		if err := f.SetSheetRow(BreakdownSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write breakdown row: %w", err)
		}
	}
	_ = f.SetCellStyle(BreakdownSheet, "A1", "C1", headerStyle)
	if n := len(r.CategoryBreakdown); n > 0 {
		_ = f.SetCellStyle(BreakdownSheet, "B2", fmt.Sprintf("B%d", n+1), moneyStyle)
	}
	_ = f.SetColWidth(BreakdownSheet, "A", "A", 24)
	_ = f.SetColWidth(BreakdownSheet, "B", "C", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func categoryName(c core.Category) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
