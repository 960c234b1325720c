package report

import (
	"math"
	"sort"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	attendanceService "github.com/oopspresent/attendance-backend-go/internal/service/attendance"
)

const (
	documentTitle  = "Attendance Report"
	documentFooter = "This report is generated automatically and is valid as of the date of generation."
)

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ChartSeries lists every subject of stats sorted by name.
func ChartSeries(stats attendance.SemesterStats) []report.ChartPoint {
	subjects := make([]string, 0, len(stats))
	for subject := range stats {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	points := make([]report.ChartPoint, 0, len(subjects))
	for _, subject := range subjects {
		stat := stats[subject]
		points = append(points, report.ChartPoint{
			Subject:          subject,
			TheoryPercentage: round1(attendanceService.Percentage(stat.Theory.Present, stat.Theory.Total)),
			LabPercentage:    round1(attendanceService.Percentage(stat.Lab.Present, stat.Lab.Total)),
			TheoryTotal:      stat.Theory.Total,
			LabTotal:         stat.Lab.Total,
		})
	}
	return points
}

// MonthlySeries is ChartSeries per month, oldest month first.
func MonthlySeries(monthly attendance.MonthlyStats) []report.MonthlyChart {
	months := make([]string, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Strings(months)

	charts := make([]report.MonthlyChart, 0, len(months))
	for _, month := range months {
		charts = append(charts, report.MonthlyChart{Month: month, Points: ChartSeries(monthly[month])})
	}
	return charts
}

func DefaulterTable(defaulters map[string]attendance.DefaulterEntry) []report.DefaulterRow {
	entries := attendanceService.SortedDefaulters(defaulters)

	rows := make([]report.DefaulterRow, 0, len(entries))
	for _, entry := range entries {
		row := report.DefaulterRow{
			Subject:      entry.Subject,
			TheoryStatus: report.OKStatus,
			LabStatus:    report.OKStatus,
		}
		if entry.TheoryBelowThreshold {
			row.TheoryStatus = report.DefaulterStatus
		}
		if entry.LabBelowThreshold {
			row.LabStatus = report.DefaulterStatus
		}
		switch {
		case entry.TheoryBelowThreshold && entry.LabBelowThreshold:
			row.Reason = report.ReasonBoth
		case entry.TheoryBelowThreshold:
			row.Reason = report.ReasonTheory
		default:
			row.Reason = report.ReasonLab
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildDocument assembles the export. Below flags use the same thresholds as
// the defaulter list.
func BuildDocument(student report.StudentInfo, stats attendance.StatsResponse, generatedAt time.Time) report.ExportDocument {
	subjects := make([]string, 0, len(stats.Semester))
	for subject := range stats.Semester {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	summary := make([]report.SummaryRow, 0, len(subjects))
	for _, subject := range subjects {
		stat := stats.Semester[subject]
		theory := attendanceService.Percentage(stat.Theory.Present, stat.Theory.Total)
		lab := attendanceService.Percentage(stat.Lab.Present, stat.Lab.Total)
		summary = append(summary, report.SummaryRow{
			Subject:          subject,
			TheoryAttended:   stat.Theory.Present,
			TheoryConducted:  stat.Theory.Total,
			LabAttended:      stat.Lab.Present,
			LabConducted:     stat.Lab.Total,
			TheoryPercentage: round1(theory),
			LabPercentage:    round1(lab),
			TheoryBelow:      attendanceService.BelowThreshold(stat.Theory, stats.Policy.TheoryThreshold, stats.Policy),
			LabBelow:         attendanceService.BelowThreshold(stat.Lab, stats.Policy.LabThreshold, stats.Policy),
		})
	}

	return report.ExportDocument{
		Title:       documentTitle,
		GeneratedAt: generatedAt,
		Student:     student,
		Summary:     summary,
		Defaulters:  DefaulterTable(stats.Defaulters),
		Footer:      documentFooter,
	}
}
