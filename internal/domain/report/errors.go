package report

import "errors"

var (
	ErrUnsupportedFormat      = errors.New("format must be pdf or xlsx")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
