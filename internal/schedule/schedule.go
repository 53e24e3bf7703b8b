package schedule

import (
	"encoding/json"
	"errors"
	"time"

	scheduleDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/schedule"
	"gorm.io/datatypes"
)

// DayType is the recurring meeting occasion a schedule covers.
type DayType string

const (
	DayWednesday DayType = "wednesday"
	DayFriday    DayType = "friday"
	DaySaturday  DayType = "saturday"
)

func (d DayType) Valid() bool {
	switch d {
	case DayWednesday, DayFriday, DaySaturday:
		return true
	}
	return false
}

// FunctionType is one of the five duties a person can be assigned to.
type FunctionType string

const (
	FunctionPortaria     FunctionType = "portaria"
	FunctionLimpeza      FunctionType = "limpeza"
	FunctionPregacao     FunctionType = "pregacao"
	FunctionLouvor       FunctionType = "louvor"
	FunctionIntrodutoria FunctionType = "introdutoria"
)

func (f FunctionType) Valid() bool {
	switch f {
	case FunctionPortaria, FunctionLimpeza, FunctionPregacao, FunctionLouvor, FunctionIntrodutoria:
		return true
	}
	return false
}

type ResponseStatus string

const (
	StatusPending  ResponseStatus = "pending"
	StatusAccepted ResponseStatus = "accepted"
	StatusDeclined ResponseStatus = "declined"
)

func (s ResponseStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Response is a person's answer for their assignment. A missing entry
// means implicit pending. Repeated submissions overwrite; no history
// is kept.
type Response struct {
	Status    ResponseStatus `json:"status"`
	Reason    *string        `json:"reason,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Assignment maps one function to the people covering it, with their
// responses keyed by user id. A response entry may only exist for an
// id present in UserIDs.
type Assignment struct {
	FunctionType FunctionType        `json:"function_type"`
	UserIDs      []string            `json:"user_ids"`
	Responses    map[string]Response `json:"responses"`
}

// Schedule is one dated roster. Assignments are embedded; they have no
// lifecycle outside their schedule. Version is the optimistic
// concurrency counter and never leaves the server.
type Schedule struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`
	DayType     DayType      `json:"day_type"`
	Assignments []Assignment `json:"assignments"`
	CreatedBy   string       `json:"created_by"`
	Active      bool         `json:"active"`
	Version     int64        `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Repository is the data access contract for schedules.
type Repository interface {
	// GetAllActive returns non-deleted schedules, date descending.
	GetAllActive() ([]*Schedule, error)
	// GetByID resolves a schedule regardless of its active flag.
	GetByID(id string) (*Schedule, error)
	// GetActiveByID resolves a schedule only while it is not soft-deleted.
	GetActiveByID(id string) (*Schedule, error)
	Create(s *Schedule) error
	// Update replaces date, day type and assignments of an active schedule.
	Update(s *Schedule) error
	// UpdateAssignments conditionally replaces the assignments document;
	// it fails with ErrVersionConflict when another writer got there first.
	UpdateAssignments(id string, assignments []Assignment, expectedVersion int64) error
	SoftDelete(id string) error
}

// ErrVersionConflict reports a lost optimistic concurrency race; the
// caller re-reads and retries.
var ErrVersionConflict = errors.New("schedule version conflict")

func ToDataModel(s *Schedule) (*scheduleDatamodel.Schedule, error) {
	assignments, err := json.Marshal(s.Assignments)
	if err != nil {
		return nil, err
	}
	return &scheduleDatamodel.Schedule{
		ID:          s.ID,
		Date:        s.Date,
		DayType:     string(s.DayType),
		Assignments: datatypes.JSON(assignments),
		CreatedBy:   s.CreatedBy,
		IsActive:    s.Active,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
	}, nil
}

func FromDataModel(record *scheduleDatamodel.Schedule) (*Schedule, error) {
	var assignments []Assignment
	if len(record.Assignments) > 0 {
		if err := json.Unmarshal(record.Assignments, &assignments); err != nil {
			return nil, err
		}
	}
	return &Schedule{
		ID:          record.ID,
		Date:        record.Date,
		DayType:     DayType(record.DayType),
		Assignments: assignments,
		CreatedBy:   record.CreatedBy,
		Active:      record.IsActive,
		Version:     record.Version,
		CreatedAt:   record.CreatedAt,
	}, nil
}
