package attendance

// Status is the recorded outcome of one theory or lab session.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusUnset   Status = ""
)

// IsDefined reports whether the status counts towards totals.
func (s Status) IsDefined() bool {
	return s == StatusPresent || s == StatusAbsent
}

// SessionRecord holds the theory and lab status of a subject on one date.
type SessionRecord struct {
	Theory Status `json:"theory,omitempty"`
	Lab    Status `json:"lab,omitempty"`
}

// IsEmpty reports whether neither session carries a value.
func (r SessionRecord) IsEmpty() bool {
	return r.Theory == StatusUnset && r.Lab == StatusUnset
}

// DailyRecord maps subject name to its sessions on one date.
type DailyRecord map[string]SessionRecord

// Log maps a YYYY-MM-DD date key to that day's record.
type Log map[string]DailyRecord

type Counter struct {
	Present int `json:"present"`
	Total   int `json:"total"`
}

type SubjectStat struct {
	Theory Counter `json:"theory"`
	Lab    Counter `json:"lab"`
}

// SemesterStats maps subject name to its totals over the whole log.
type SemesterStats map[string]SubjectStat

// MonthlyStats maps a YYYY-MM key to the stats of that month alone.
type MonthlyStats map[string]SemesterStats

type DefaulterEntry struct {
	Subject              string  `json:"subject"`
	TheoryBelowThreshold bool    `json:"theory_below_threshold"`
	LabBelowThreshold    bool    `json:"lab_below_threshold"`
	TheoryPercentage     float64 `json:"theory_percentage"`
	LabPercentage        float64 `json:"lab_percentage"`
	TheoryTotal          int     `json:"theory_total"`
	LabTotal             int     `json:"lab_total"`
}

// AggregationWarning describes a log entry that was left out of the totals.
type AggregationWarning struct {
	DateKey string `json:"date_key"`
	Subject string `json:"subject,omitempty"`
	Reason  string `json:"reason"`
}

type Aggregation struct {
	Semester SemesterStats
	Monthly  MonthlyStats
	Warnings []AggregationWarning
}

// Policy holds the defaulter thresholds in percent.
type Policy struct {
	TheoryThreshold float64 `json:"theory_threshold"`
	LabThreshold    float64 `json:"lab_threshold"`

	// SuppressUnrecorded keeps session types with no recorded sessions off the defaulter list.
	SuppressUnrecorded bool `json:"suppress_unrecorded"`
}
