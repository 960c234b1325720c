package fixtures

import (
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
)

// ==========================================
// SUBJECTS
// ==========================================

const (
	SubjectMaths       = "EM-III"
	SubjectDiscrete    = "DSGT"
	SubjectDataStruct  = "DS"
	SubjectLogicDesign = "DLCA"
	SubjectGraphics    = "CG"
	SubjectOOPM        = "OOPM"
	SubjectMiniProject = "Mini Project"
)

type week = map[time.Weekday][]string

// DefaultTimetable returns the weekly timetable used by the deployed app.
// Lectures are shared by a division, labs are held per batch.
func DefaultTimetable() timetable.Definition {
	return timetable.Definition{
		Divisions: map[string]timetable.DivisionPlan{
			"A": {
				Theory: week{
					time.Monday:    {SubjectMaths, SubjectDataStruct, SubjectLogicDesign},
					time.Tuesday:   {SubjectDiscrete, SubjectGraphics, SubjectDataStruct},
					time.Wednesday: {SubjectLogicDesign, SubjectMaths, SubjectGraphics},
					time.Thursday:  {SubjectDataStruct, SubjectDiscrete, SubjectMaths},
					time.Friday:    {SubjectGraphics, SubjectLogicDesign, SubjectDiscrete},
				},
				Batches: map[string]week{
					"A1": {
						time.Monday:    {SubjectDataStruct},
						time.Tuesday:   {SubjectLogicDesign},
						time.Wednesday: {SubjectOOPM},
						time.Thursday:  {SubjectGraphics},
						time.Friday:    {SubjectMiniProject},
					},
					"A2": {
						time.Monday:    {SubjectGraphics},
						time.Tuesday:   {SubjectDataStruct},
						time.Wednesday: {SubjectLogicDesign},
						time.Thursday:  {SubjectOOPM},
						time.Friday:    {SubjectMiniProject},
					},
					"A3": {
						time.Monday:    {SubjectOOPM},
						time.Tuesday:   {SubjectGraphics},
						time.Wednesday: {SubjectDataStruct},
						time.Thursday:  {SubjectLogicDesign},
						time.Friday:    {SubjectMiniProject},
					},
				},
			},
			"B": {
				Theory: week{
					time.Monday:    {SubjectDiscrete, SubjectGraphics, SubjectMaths},
					time.Tuesday:   {SubjectDataStruct, SubjectLogicDesign, SubjectMaths},
					time.Wednesday: {SubjectGraphics, SubjectDataStruct, SubjectDiscrete},
					time.Thursday:  {SubjectLogicDesign, SubjectMaths, SubjectGraphics},
					time.Friday:    {SubjectDataStruct, SubjectDiscrete, SubjectLogicDesign},
				},
				Batches: map[string]week{
					"B1": {
						time.Monday:    {SubjectMiniProject},
						time.Tuesday:   {SubjectDataStruct},
						time.Wednesday: {SubjectGraphics},
						time.Thursday:  {SubjectOOPM},
						time.Friday:    {SubjectLogicDesign},
					},
					"B2": {
						time.Monday:    {SubjectMiniProject},
						time.Tuesday:   {SubjectOOPM},
						time.Wednesday: {SubjectDataStruct},
						time.Thursday:  {SubjectLogicDesign},
						time.Friday:    {SubjectGraphics},
					},
					"B3": {
						time.Monday:    {SubjectMiniProject},
						time.Tuesday:   {SubjectLogicDesign},
						time.Wednesday: {SubjectOOPM},
						time.Thursday:  {SubjectGraphics},
						time.Friday:    {SubjectDataStruct},
					},
				},
			},
		},
	}
}
