package http

import (
	"net/http"

	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/handler/http/response"
)

type TimetableHandler interface {
	Options(w http.ResponseWriter, r *http.Request)
	Day(w http.ResponseWriter, r *http.Request)
}

type timetableHandlerImpl struct {
	resolver timetable.Resolver
}

func NewTimetableHandler(resolver timetable.Resolver) TimetableHandler {
	return &timetableHandlerImpl{resolver: resolver}
}

// Options lists the selectable divisions with their batches
func (h *timetableHandlerImpl) Options(w http.ResponseWriter, r *http.Request) {
	divisions := h.resolver.Divisions()
	options := timetable.OptionsResponse{Divisions: make([]timetable.DivisionOption, 0, len(divisions))}
	for _, division := range divisions {
		options.Divisions = append(options.Divisions, timetable.DivisionOption{
			Division: division,
			Batches:  h.resolver.Batches(division),
		})
	}
	response.Success(w, options)
}

// Day returns the subjects scheduled on a weekday
func (h *timetableHandlerImpl) Day(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := timetable.DayRequest{
		Division: query.Get("division"),
		Batch:    query.Get("batch"),
		Day:      query.Get("day"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, timetable.DayResponse{
		Division: req.Division,
		Batch:    req.Batch,
		Day:      req.Day,
		Subjects: h.resolver.SubjectsForDay(req.Division, req.Batch, req.Day),
	})
}
