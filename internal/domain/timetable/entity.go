package timetable

import "time"

// SessionType tells which attendance inputs are enabled for a subject on a day.
type SessionType string

const (
	SessionTheory SessionType = "theory"
	SessionLab    SessionType = "lab"
	SessionBoth   SessionType = "both"
)

func (s SessionType) HasTheory() bool {
	return s == SessionTheory || s == SessionBoth
}

func (s SessionType) HasLab() bool {
	return s == SessionLab || s == SessionBoth
}

// ScheduledSubject is one row of a day's timetable
type ScheduledSubject struct {
	Subject string      `json:"subject"`
	Type    SessionType `json:"type"`
}

// Definition is the static weekly timetable for every division.
type Definition struct {
	Divisions map[string]DivisionPlan
}

// DivisionPlan holds lectures shared by the whole division and labs per batch.
type DivisionPlan struct {
	Theory  map[time.Weekday][]string
	Batches map[string]map[time.Weekday][]string
}
