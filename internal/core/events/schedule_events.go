package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeScheduleCreated = "schedule.created"
	EventTypeScheduleUpdated = "schedule.updated"
)

// AssignmentNotice is the per-function slice of a schedule event payload.
// It carries plain strings so subscribers stay decoupled from the
// schedule domain types.
type AssignmentNotice struct {
	FunctionType string   `json:"function_type"`
	UserIDs      []string `json:"user_ids"`
}

type ScheduleCreatedEvent struct {
	BaseEvent
	ScheduleID  string             `json:"schedule_id"`
	Date        string             `json:"date"`
	Assignments []AssignmentNotice `json:"assignments"`
}

func NewScheduleCreatedEvent(scheduleID, date string, assignments []AssignmentNotice) *ScheduleCreatedEvent {
	return &ScheduleCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeScheduleCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"schedule_id": scheduleID,
				"date":        date,
			},
		},
		ScheduleID:  scheduleID,
		Date:        date,
		Assignments: assignments,
	}
}

type ScheduleUpdatedEvent struct {
	BaseEvent
	ScheduleID  string             `json:"schedule_id"`
	Date        string             `json:"date"`
	Assignments []AssignmentNotice `json:"assignments"`
}

func NewScheduleUpdatedEvent(scheduleID, date string, assignments []AssignmentNotice) *ScheduleUpdatedEvent {
	return &ScheduleUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeScheduleUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"schedule_id": scheduleID,
				"date":        date,
			},
		},
		ScheduleID:  scheduleID,
		Date:        date,
		Assignments: assignments,
	}
}
