package timetable

import (
	"sort"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

type resolverImpl struct {
	definition timetable.Definition
}

// NewResolver builds a Resolver over a static timetable definition.
func NewResolver(definition timetable.Definition) timetable.Resolver {
	return &resolverImpl{definition: definition}
}

// SubjectsForDay implements timetable.Resolver.
func (r *resolverImpl) SubjectsForDay(division, batch, weekdayName string) []timetable.ScheduledSubject {
	weekday, ok := validator.ParseWeekday(weekdayName)
	if !ok {
		return []timetable.ScheduledSubject{}
	}
	return r.subjectsForWeekday(division, batch, weekday)
}

// SubjectsForDate implements timetable.Resolver.
func (r *resolverImpl) SubjectsForDate(division, batch string, date time.Time) []timetable.ScheduledSubject {
	return r.subjectsForWeekday(division, batch, date.Weekday())
}

// subjectsForWeekday lists lectures in order, then labs. A subject with both a
// lecture and a lab on the same day is listed once as SessionBoth.
func (r *resolverImpl) subjectsForWeekday(division, batch string, weekday time.Weekday) []timetable.ScheduledSubject {
	plan, labs, ok := r.lookup(division, batch)
	if !ok {
		return []timetable.ScheduledSubject{}
	}

	subjects := make([]timetable.ScheduledSubject, 0)
	index := make(map[string]int)

	for _, subject := range plan.Theory[weekday] {
		if _, seen := index[subject]; seen {
			continue
		}
		index[subject] = len(subjects)
		subjects = append(subjects, timetable.ScheduledSubject{Subject: subject, Type: timetable.SessionTheory})
	}

	for _, subject := range labs[weekday] {
		if i, seen := index[subject]; seen {
			if subjects[i].Type == timetable.SessionTheory {
				subjects[i].Type = timetable.SessionBoth
			}
			continue
		}
		index[subject] = len(subjects)
		subjects = append(subjects, timetable.ScheduledSubject{Subject: subject, Type: timetable.SessionLab})
	}

	return subjects
}

// AllSubjects implements timetable.Resolver.
func (r *resolverImpl) AllSubjects(division, batch string) []string {
	plan, labs, ok := r.lookup(division, batch)
	if !ok {
		return []string{}
	}

	set := make(map[string]struct{})
	for _, day := range plan.Theory {
		for _, subject := range day {
			set[subject] = struct{}{}
		}
	}
	for _, day := range labs {
		for _, subject := range day {
			set[subject] = struct{}{}
		}
	}

	subjects := make([]string, 0, len(set))
	for subject := range set {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}

// HasSubject implements timetable.Resolver.
func (r *resolverImpl) HasSubject(division, batch, subject string) bool {
	return validator.IsInSlice(subject, r.AllSubjects(division, batch))
}

// Divisions implements timetable.Resolver.
func (r *resolverImpl) Divisions() []string {
	divisions := make([]string, 0, len(r.definition.Divisions))
	for division := range r.definition.Divisions {
		divisions = append(divisions, division)
	}
	sort.Strings(divisions)
	return divisions
}

// Batches implements timetable.Resolver.
func (r *resolverImpl) Batches(division string) []string {
	plan, ok := r.definition.Divisions[division]
	if !ok {
		return []string{}
	}
	batches := make([]string, 0, len(plan.Batches))
	for batch := range plan.Batches {
		batches = append(batches, batch)
	}
	sort.Strings(batches)
	return batches
}

// IsConfigured implements timetable.Resolver.
func (r *resolverImpl) IsConfigured(division, batch string) bool {
	_, _, ok := r.lookup(division, batch)
	return ok
}

func (r *resolverImpl) lookup(division, batch string) (timetable.DivisionPlan, map[time.Weekday][]string, bool) {
	plan, ok := r.definition.Divisions[division]
	if !ok {
		return timetable.DivisionPlan{}, nil, false
	}
	labs, ok := plan.Batches[batch]
	if !ok {
		return timetable.DivisionPlan{}, nil, false
	}
	return plan, labs, true
}
