package export

import (
	"fmt"

	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	DefaultersSheet = "Defaulters"

	// summaryHeaderRow is the first table row of the Summary sheet, below the title and student block
	summaryHeaderRow = 9
)

// XLSXRenderer writes a workbook with a Summary and a Defaulters sheet
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

type xlsxStyles struct {
	title, header, bold, ok, fail int
}

func (r *XLSXRenderer) Render(doc report.ExportDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(DefaultersSheet); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeSummary(f, styles, doc); err != nil {
		return nil, fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeDefaulters(f, styles, doc); err != nil {
		return nil, fmt.Errorf("write defaulters sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (xlsxStyles, error) {
	percent := `0.0"%"`
	var s xlsxStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16, Color: "3B82F6"}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"F3F4F6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "6B7280"}}); err != nil {
		return s, err
	}
	if s.ok, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "22C55E"}, CustomNumFmt: &percent}); err != nil {
		return s, err
	}
	if s.fail, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "EF4444"}, CustomNumFmt: &percent}); err != nil {
		return s, err
	}
	return s, nil
}

func writeSummary(f *excelize.File, styles xlsxStyles, doc report.ExportDocument) error {
	sheet := SummarySheet
	cells := map[string]interface{}{
		"A1": doc.Title,
		"A2": "Generated on " + doc.GeneratedAt.Format("January 2, 2006"),
		"A4": "Name",
		"B4": doc.Student.Name,
		"A5": "Email",
		"B5": doc.Student.Email,
		"A6": "Division",
		"B6": doc.Student.Division,
		"A7": "Batch",
		"B7": doc.Student.Batch,
	}
	for ref, value := range cells {
		if err := f.SetCellValue(sheet, ref, value); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "A7", styles.bold); err != nil {
		return err
	}

	header := []interface{}{"Subject", "Theory Attended", "Theory Conducted", "Labs Attended", "Labs Conducted", "Theory %", "Lab %"}
	if err := writeRow(f, sheet, summaryHeaderRow, header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A9", "G9", styles.header); err != nil {
		return err
	}

	for i, row := range doc.Summary {
		rowNum := summaryHeaderRow + 1 + i
		values := []interface{}{row.Subject, row.TheoryAttended, row.TheoryConducted, row.LabAttended, row.LabConducted, row.TheoryPercentage, row.LabPercentage}
		if err := writeRow(f, sheet, rowNum, values); err != nil {
			return err
		}
		if err := styleCell(f, sheet, 6, rowNum, pick(row.TheoryBelow, styles)); err != nil {
			return err
		}
		if err := styleCell(f, sheet, 7, rowNum, pick(row.LabBelow, styles)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "G", 16)
}

func writeDefaulters(f *excelize.File, styles xlsxStyles, doc report.ExportDocument) error {
	sheet := DefaultersSheet
	if err := writeRow(f, sheet, 1, []interface{}{"Subject", "Theory", "Lab", "Reason"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", styles.header); err != nil {
		return err
	}

	if len(doc.Defaulters) == 0 {
		return f.SetCellValue(sheet, "A2", "No defaulters found. Keep up the good work!")
	}

	for i, row := range doc.Defaulters {
		rowNum := 2 + i
		if err := writeRow(f, sheet, rowNum, []interface{}{row.Subject, row.TheoryStatus, row.LabStatus, row.Reason}); err != nil {
			return err
		}
		if row.TheoryStatus == report.DefaulterStatus {
			if err := styleCell(f, sheet, 2, rowNum, styles.fail); err != nil {
				return err
			}
		}
		if row.LabStatus == report.DefaulterStatus {
			if err := styleCell(f, sheet, 3, rowNum, styles.fail); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheet, "A", "D", 18)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, start, &values)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, ref, ref, style)
}

func pick(below bool, styles xlsxStyles) int {
	if below {
		return styles.fail
	}
	return styles.ok
}
