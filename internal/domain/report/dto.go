package report

import (
	"strings"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
)

// ========================================
// EXPORT FORMATS
// ========================================

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts pdf or xlsx in any case. An empty value means pdf.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// ========================================
// CHART
// ========================================

// ChartPoint is one bar pair of the attendance chart. Percentages are rounded to one decimal.
type ChartPoint struct {
	Subject          string  `json:"subject"`
	TheoryPercentage float64 `json:"theory_percentage"`
	LabPercentage    float64 `json:"lab_percentage"`
	TheoryTotal      int     `json:"theory_total"`
	LabTotal         int     `json:"lab_total"`
}

type MonthlyChart struct {
	Month  string       `json:"month"`
	Points []ChartPoint `json:"points"`
}

type ChartResponse struct {
	SetupRequired bool               `json:"setup_required"`
	Subjects      []ChartPoint       `json:"subjects"`
	Monthly       []MonthlyChart     `json:"monthly"`
	Overall       attendance.Overall `json:"overall"`
}

// ========================================
// EXPORT DOCUMENT
// ========================================

const (
	DefaulterStatus = "Defaulter"
	OKStatus        = "OK"

	ReasonTheory = "Theory"
	ReasonLab    = "Lab"
	ReasonBoth   = "Both"
)

type DefaulterRow struct {
	Subject      string `json:"subject"`
	TheoryStatus string `json:"theory_status"`
	LabStatus    string `json:"lab_status"`
	Reason       string `json:"reason"`
}

type StudentInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Division string `json:"division"`
	Batch    string `json:"batch"`
}

// SummaryRow is one subject line of the exported summary table
type SummaryRow struct {
	Subject          string
	TheoryAttended   int
	TheoryConducted  int
	LabAttended      int
	LabConducted     int
	TheoryPercentage float64
	LabPercentage    float64
	TheoryBelow      bool
	LabBelow         bool
}

// ExportDocument is everything a renderer needs to draw the report
type ExportDocument struct {
	Title       string
	GeneratedAt time.Time
	Student     StudentInfo
	Summary     []SummaryRow
	Defaulters  []DefaulterRow
	Footer      string
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ArchiveResponse struct {
	Path   string `json:"path"`
	URL    string `json:"url"`
	Format Format `json:"format"`
}
