package timetable

import "time"

// Resolver answers timetable lookups for a division/batch pair.
// Unknown divisions, batches or weekdays resolve to empty results.
type Resolver interface {
	// SubjectsForDay returns the ordered subjects scheduled on a weekday ("Monday", ...)
	SubjectsForDay(division, batch, weekdayName string) []ScheduledSubject

	// SubjectsForDate returns the subjects scheduled on the weekday of date
	SubjectsForDate(division, batch string, date time.Time) []ScheduledSubject

	// AllSubjects returns every subject scheduled in the week, sorted
	AllSubjects(division, batch string) []string

	HasSubject(division, batch, subject string) bool

	Divisions() []string
	Batches(division string) []string
	IsConfigured(division, batch string) bool
}
