package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/handler/http/response"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/jwt"
	attendanceService "github.com/oopspresent/attendance-backend-go/internal/service/attendance"
)

const streamKeepalive = 30 * time.Second

type AttendanceHandler interface {
	GetDay(w http.ResponseWriter, r *http.Request)
	MarkDay(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Defaulters(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
	}
}

// GetDay returns the scheduled subjects of a date with their stored statuses
func (h *attendanceHandlerImpl) GetDay(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	day, err := h.attendanceService.GetDay(r.Context(), userID, chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, day)
}

// MarkDay overwrites the record of a date
func (h *attendanceHandlerImpl) MarkDay(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.MarkAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MarkDay decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Date = chi.URLParam(r, "date")

	day, err := h.attendanceService.MarkDay(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance saved", day)
}

func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	stats, err := h.attendanceService.GetStats(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// Defaulters returns the defaulter table sorted by subject
func (h *attendanceHandlerImpl) Defaulters(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	stats, err := h.attendanceService.GetStats(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, attendance.DefaultersResponse{
		SetupRequired: stats.SetupRequired,
		Policy:        stats.Policy,
		Defaulters:    attendanceService.SortedDefaulters(stats.Defaulters),
	})
}

// StreamToken issues a short-lived token for the stats stream
func (h *attendanceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, attendance.StreamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream pushes fresh stats to the client after every write to the user's profile
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	updates := make(chan attendance.StatsResponse, 1)
	unsubscribe, err := h.attendanceService.Subscribe(r.Context(), userID, func(stats attendance.StatsResponse) {
		// keep only the newest snapshot
		select {
		case <-updates:
		default:
		}
		updates <- stats
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case stats := <-updates:
			data, err := json.Marshal(stats)
			if err != nil {
				slog.Error("failed to encode stats event", "user_id", userID, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: stats\ndata: %s\n\n", data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
