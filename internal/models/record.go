package models

import "time"

// RecordStatus tracks a schedule record through its workflow.
type RecordStatus string

const (
	// StatusDraft is the state of a manually created record before publish.
	StatusDraft RecordStatus = "DRAFT"
	// StatusPending is the state of an imported record; it can be
	// validated directly, without an explicit publish.
	StatusPending RecordStatus = "PENDING"
	// StatusPublished records are visible to the validation workflow.
	StatusPublished RecordStatus = "PUBLISHED"
	// StatusValidated records carry a group validation stamp.
	StatusValidated RecordStatus = "VALIDATED"
	// StatusAssigned records hold at least one assignment.
	StatusAssigned RecordStatus = "ASSIGNED"
	// StatusExpired is derived at read time when the end date is past.
	// It is never persisted.
	StatusExpired RecordStatus = "EXPIRED"
)

// ScheduleRecord is one overtime (HE) request for a scheduling interval.
// AssignedHEMinutes never exceeds HEMinutes and AssignedHC never exceeds
// HCRequested.
type ScheduleRecord struct {
	ID                string       `json:"id"`
	StartDate         string       `json:"start_date"` // YYYY-MM-DD
	EndDate           string       `json:"end_date"`   // YYYY-MM-DD
	DMM               string       `json:"dmm,omitempty"`
	Segment           string       `json:"segment"`
	Operation         string       `json:"operation"`
	IntervalStart     string       `json:"interval_start"` // HH:MM:SS
	HCRequested       int          `json:"hc_requested"`
	HEMinutes         int          `json:"he_minutes"`
	AssignedHC        int          `json:"assigned_hc"`
	AssignedHEMinutes int          `json:"assigned_he_minutes"`
	Motivo            string       `json:"motivo,omitempty"`
	Status            RecordStatus `json:"status"`
	ValidationKey     string       `json:"validation_key,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	CreatedBy         string       `json:"created_by,omitempty"`
	PublishedAt       *time.Time   `json:"published_at,omitempty"`
}

// RemainingMinutes is the record's still-allocatable overtime budget.
func (r *ScheduleRecord) RemainingMinutes() int {
	remaining := r.HEMinutes - r.AssignedHEMinutes
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingUnits is the remaining budget in headcount units.
func (r *ScheduleRecord) RemainingUnits() int {
	remaining := r.HCRequested - r.AssignedHC
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AssignmentEvent records minutes granted from one record to one collaborator.
type AssignmentEvent struct {
	ID                  string    `json:"id"`
	ByMatricula         string    `json:"by_matricula"`
	ByName              string    `json:"by_name,omitempty"`
	SupervisorMatricula string    `json:"supervisor_matricula,omitempty"`
	ToMatricula         string    `json:"to_matricula"`
	ToName              string    `json:"to_name,omitempty"`
	Minutes             int       `json:"minutes"`
	Interval            string    `json:"interval,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Group is the derived aggregation of records sharing date range, segment
// and operation. Recomputed on demand, never persisted.
type Group struct {
	Key       string `json:"key"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Segment   string `json:"segment"`
	Operation string `json:"operation"`

	Records []*ScheduleRecord `json:"records"`

	TotalHEMinutes    int `json:"total_he_minutes"`
	TotalHCRequested  int `json:"total_hc_requested"`
	AssignedHEMinutes int `json:"assigned_he_minutes"`
	AssignedHC        int `json:"assigned_hc"`

	Validation *GroupValidation `json:"validation,omitempty"`
}

// RecordFilter constrains record listings.
type RecordFilter struct {
	Start          string
	End            string
	Interval       string // HH:MM, matched against the normalized interval start
	Segment        string
	Operation      string
	HCMin          *int
	Status         RecordStatus
	IncludeExpired bool
}
