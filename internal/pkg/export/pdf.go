package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
)

type rgb struct{ r, g, b int }

var (
	colorAccent = rgb{59, 130, 246}
	colorMuted  = rgb{107, 114, 128}
	colorText   = rgb{55, 65, 81}
	colorBorder = rgb{229, 231, 235}
	colorHeader = rgb{243, 244, 246}
	colorRed    = rgb{239, 68, 68}
	colorGreen  = rgb{34, 197, 94}
	colorFooter = rgb{156, 163, 175}
)

const (
	pageMargin   = 15.0
	contentWidth = 210.0 - 2*pageMargin
	rowHeight    = 7.0
	bottomLimit  = 297.0 - 25.0
)

// PDFRenderer draws the report on A4 pages
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(doc report.ExportDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "", 8)
		setText(pdf, colorFooter)
		pdf.CellFormat(0, 5, tr(doc.Footer), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	setText(pdf, colorAccent)
	pdf.CellFormat(0, 11, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	setText(pdf, colorMuted)
	pdf.CellFormat(0, 6, "Generated on "+doc.GeneratedAt.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageMargin, pdf.GetY()+2, pageMargin+contentWidth, pdf.GetY()+2)
	pdf.SetLineWidth(0.2)
	pdf.Ln(8)

	// Student information
	sectionTitle(pdf, "Student Information")
	half := contentWidth / 2
	infoPair(pdf, tr, "Name:", doc.Student.Name, half)
	infoPair(pdf, tr, "Division:", doc.Student.Division, half)
	pdf.Ln(6)
	infoPair(pdf, tr, "Email:", doc.Student.Email, half)
	infoPair(pdf, tr, "Batch:", doc.Student.Batch, half)
	pdf.Ln(10)

	// Summary
	sectionTitle(pdf, "Attendance Summary")
	summaryHeader := []string{"Subject", "Theory Attended/Conducted", "Labs Attended/Conducted", "Theory %", "Lab %"}
	colWidth := contentWidth / float64(len(summaryHeader))
	tableHeader(pdf, summaryHeader, colWidth)
	for _, row := range doc.Summary {
		if pdf.GetY()+rowHeight > bottomLimit {
			pdf.AddPage()
			tableHeader(pdf, summaryHeader, colWidth)
		}
		pdf.SetFont("Helvetica", "", 9)
		cell(pdf, colWidth, tr(row.Subject), colorText)
		cell(pdf, colWidth, fmt.Sprintf("%d/%d", row.TheoryAttended, row.TheoryConducted), colorText)
		cell(pdf, colWidth, fmt.Sprintf("%d/%d", row.LabAttended, row.LabConducted), colorText)
		cell(pdf, colWidth, fmt.Sprintf("%.1f%%", row.TheoryPercentage), flagColor(row.TheoryBelow))
		cell(pdf, colWidth, fmt.Sprintf("%.1f%%", row.LabPercentage), flagColor(row.LabBelow))
		pdf.Ln(rowHeight)
	}
	pdf.Ln(8)

	// Defaulters
	if pdf.GetY()+3*rowHeight > bottomLimit {
		pdf.AddPage()
	}
	sectionTitle(pdf, "Defaulters List")
	if len(doc.Defaulters) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		setText(pdf, colorGreen)
		pdf.CellFormat(0, rowHeight, "No defaulters found. Keep up the good work!", "", 1, "L", false, 0, "")
	} else {
		defaulterHeader := []string{"Subject", "Theory", "Lab", "Reason"}
		colWidth := contentWidth / float64(len(defaulterHeader))
		tableHeader(pdf, defaulterHeader, colWidth)
		for _, row := range doc.Defaulters {
			if pdf.GetY()+rowHeight > bottomLimit {
				pdf.AddPage()
				tableHeader(pdf, defaulterHeader, colWidth)
			}
			pdf.SetFont("Helvetica", "", 9)
			cell(pdf, colWidth, tr(row.Subject), colorText)
			statusCell(pdf, colWidth, row.TheoryStatus)
			statusCell(pdf, colWidth, row.LabStatus)
			pdf.SetFont("Helvetica", "", 9)
			cell(pdf, colWidth, row.Reason, colorText)
			pdf.Ln(rowHeight)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func flagColor(below bool) rgb {
	if below {
		return colorRed
	}
	return colorGreen
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	setText(pdf, colorAccent)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func infoPair(pdf *fpdf.Fpdf, tr func(string) string, label, value string, width float64) {
	pdf.SetFont("Helvetica", "B", 10)
	setText(pdf, colorMuted)
	pdf.CellFormat(22, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, colorText)
	pdf.CellFormat(width-22, 6, tr(value), "", 0, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, titles []string, width float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(colorHeader.r, colorHeader.g, colorHeader.b)
	pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	setText(pdf, colorText)
	for _, title := range titles {
		pdf.CellFormat(width, rowHeight+1, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight + 1)
}

func cell(pdf *fpdf.Fpdf, width float64, text string, c rgb) {
	setText(pdf, c)
	pdf.CellFormat(width, rowHeight, text, "1", 0, "C", false, 0, "")
}

func statusCell(pdf *fpdf.Fpdf, width float64, status string) {
	if status == report.DefaulterStatus {
		pdf.SetFont("Helvetica", "B", 9)
		cell(pdf, width, status, colorRed)
		return
	}
	pdf.SetFont("Helvetica", "", 9)
	cell(pdf, width, status, colorText)
}
