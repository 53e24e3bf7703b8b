package schedule

import (
	"fmt"
	"regexp"

	"github.com/geracaoeleita/roster-management/internal"
)

// Dates stay YYYY-MM-DD strings end to end; lexicographic order on this
// format is chronological order, which list ordering relies on.
var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// AssignmentDTO mirrors Assignment on the wire. Responses may be
// resent on update so already-collected answers survive the wholesale
// replace.
type AssignmentDTO struct {
	FunctionType string              `json:"function_type"`
	UserIDs      []string            `json:"user_ids"`
	Responses    map[string]Response `json:"responses,omitempty"`
}

// ScheduleCreateDTO is the payload for both create and update; updates
// replace the full assignment state, not a diff.
type ScheduleCreateDTO struct {
	Date        string          `json:"date"`
	DayType     string          `json:"day_type"`
	Assignments []AssignmentDTO `json:"assignments"`
}

func (dto ScheduleCreateDTO) Validate() error {
	if !dateFormat.MatchString(dto.Date) {
		return internal.NewValidationFieldError("date", "date must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	if !DayType(dto.DayType).Valid() {
		return internal.NewValidationFieldError("day_type", "day_type must be wednesday, friday or saturday", internal.ErrCodeInvalidDayType)
	}
	for i, a := range dto.Assignments {
		if !FunctionType(a.FunctionType).Valid() {
			return internal.NewValidationFieldError("assignments",
				fmt.Sprintf("assignment %d: unknown function type %q", i, a.FunctionType),
				internal.ErrCodeInvalidFunction)
		}
		for userID, resp := range a.Responses {
			if !containsString(a.UserIDs, userID) {
				return internal.NewValidationFieldError("assignments",
					fmt.Sprintf("assignment %d: response for user %s not in user list", i, userID),
					internal.ErrCodeValidationFailed)
			}
			if !resp.Status.Valid() {
				return internal.NewValidationFieldError("assignments",
					fmt.Sprintf("assignment %d: invalid response status %q", i, resp.Status),
					internal.ErrCodeInvalidStatus)
			}
		}
	}
	return nil
}

// ToAssignments converts the wire shape into domain assignments.
func (dto ScheduleCreateDTO) ToAssignments() []Assignment {
	assignments := make([]Assignment, len(dto.Assignments))
	for i, a := range dto.Assignments {
		responses := a.Responses
		if responses == nil {
			responses = map[string]Response{}
		}
		userIDs := a.UserIDs
		if userIDs == nil {
			userIDs = []string{}
		}
		assignments[i] = Assignment{
			FunctionType: FunctionType(a.FunctionType),
			UserIDs:      userIDs,
			Responses:    responses,
		}
	}
	return assignments
}

// RespondDTO is the payload for POST /schedule-response.
type RespondDTO struct {
	ScheduleID   string  `json:"schedule_id"`
	FunctionType string  `json:"function_type"`
	Status       string  `json:"status"`
	Reason       *string `json:"reason,omitempty"`
}

func (dto RespondDTO) Validate() error {
	if dto.ScheduleID == "" {
		return internal.NewValidationFieldError("schedule_id", "schedule_id is required", internal.ErrCodeValidationFailed)
	}
	if !FunctionType(dto.FunctionType).Valid() {
		return internal.NewValidationFieldError("function_type",
			fmt.Sprintf("unknown function type %q", dto.FunctionType),
			internal.ErrCodeInvalidFunction)
	}
	if !ResponseStatus(dto.Status).Valid() {
		return internal.NewValidationFieldError("status",
			fmt.Sprintf("invalid response status %q", dto.Status),
			internal.ErrCodeInvalidStatus)
	}
	return nil
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
