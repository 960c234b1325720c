package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	"github.com/oopspresent/attendance-backend-go/internal/service/file"
)

type ReportServiceImpl struct {
	attendance attendance.AttendanceService
	profile.ProfileRepository
	renderers map[report.Format]report.Renderer
	files     file.FileService
	now       func() time.Time
}

func NewReportService(
	attendanceService attendance.AttendanceService,
	profileRepo profile.ProfileRepository,
	renderers map[report.Format]report.Renderer,
	fileService file.FileService,
) report.ReportService {
	return &ReportServiceImpl{
		attendance:        attendanceService,
		ProfileRepository: profileRepo,
		renderers:         renderers,
		files:             fileService,
		now:               time.Now,
	}
}

// GetChart implements report.ReportService.
func (s *ReportServiceImpl) GetChart(ctx context.Context, userID string) (report.ChartResponse, error) {
	stats, err := s.attendance.GetStats(ctx, userID)
	if err != nil {
		return report.ChartResponse{}, err
	}

	return report.ChartResponse{
		SetupRequired: stats.SetupRequired,
		Subjects:      ChartSeries(stats.Semester),
		Monthly:       MonthlySeries(stats.Monthly),
		Overall:       stats.Overall,
	}, nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, userID string, format report.Format) (report.ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}

	stats, err := s.attendance.GetStats(ctx, userID)
	if err != nil {
		return report.ExportFile{}, err
	}
	if stats.SetupRequired {
		return report.ExportFile{}, attendance.ErrSetupRequired
	}

	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return report.ExportFile{}, attendance.ErrSetupRequired
		}
		return report.ExportFile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	generatedAt := s.now()
	doc := BuildDocument(report.StudentInfo{
		Name:     p.Name,
		Email:    p.Email,
		Division: p.Division,
		Batch:    p.Batch,
	}, stats, generatedAt)

	data, err := renderer.Render(doc)
	if err != nil {
		slog.Error("report render failed", "user_id", userID, "format", format, "error", err)
		return report.ExportFile{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf("attendance-report-%s.%s", generatedAt.Format("2006-01-02"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Archive implements report.ReportService.
func (s *ReportServiceImpl) Archive(ctx context.Context, userID string, format report.Format) (report.ArchiveResponse, error) {
	exported, err := s.Export(ctx, userID, format)
	if err != nil {
		return report.ArchiveResponse{}, err
	}

	path, err := s.files.ArchiveReport(ctx, userID, exported.Filename, bytes.NewReader(exported.Data), exported.ContentType)
	if err != nil {
		return report.ArchiveResponse{}, err
	}
	url, err := s.files.GetFileURL(ctx, path)
	if err != nil {
		return report.ArchiveResponse{}, err
	}

	slog.Info("report archived", "user_id", userID, "path", path, "bytes", len(exported.Data))
	return report.ArchiveResponse{Path: path, URL: url, Format: format}, nil
}
