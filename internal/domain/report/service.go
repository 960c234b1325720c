package report

import "context"

type ReportService interface {
	// GetChart returns per-subject and per-month percentages for the dashboard chart
	GetChart(ctx context.Context, userID string) (ChartResponse, error)

	// Export renders the attendance report as a downloadable file
	Export(ctx context.Context, userID string, format Format) (ExportFile, error)

	// Archive renders the report, stores it and returns a link to the stored copy
	Archive(ctx context.Context, userID string, format Format) (ArchiveResponse, error)
}

// Renderer turns an export document into file bytes
type Renderer interface {
	Render(doc ExportDocument) ([]byte, error)
}
