package http

import (
	"net/http"

	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	"github.com/oopspresent/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Chart(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	Archive(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func (h *reportHandlerImpl) Chart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	chart, err := h.reportService.GetChart(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, chart)
}

// Export streams the rendered report as an attachment
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.Export(r.Context(), userID, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, file.Filename, file.ContentType, file.Data)
}

// Archive stores a rendered copy and returns its link
func (h *reportHandlerImpl) Archive(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	archived, err := h.reportService.Archive(r.Context(), userID, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Report archived", archived)
}
