package notification

import (
	"time"

	notificationDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/notification"
)

// Notification tells one user about one assignment. Date and function
// are copied from the schedule at creation time and only refreshed by
// full regeneration on schedule update; schedule soft-deletion leaves
// them behind.
type Notification struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ScheduleID   string    `json:"schedule_id"`
	FunctionType string    `json:"function_type"`
	Date         string    `json:"date"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository is the data access contract for notifications.
type Repository interface {
	// GetByUserID returns the user's notifications, newest first,
	// capped at limit.
	GetByUserID(userID string, limit int) ([]*Notification, error)
	Create(n *Notification) error
	// MarkRead flips the read flag; ownership is part of the lookup
	// predicate, so a foreign id reads as not found.
	MarkRead(id, userID string) error
	// DeleteBySchedule purges every notification referencing the
	// schedule, read or not.
	DeleteBySchedule(scheduleID string) error
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:           n.ID,
		UserID:       n.UserID,
		ScheduleID:   n.ScheduleID,
		FunctionType: n.FunctionType,
		Date:         n.Date,
		Message:      n.Message,
		Read:         n.Read,
		CreatedAt:    n.CreatedAt,
	}
}

func FromDataModel(record *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:           record.ID,
		UserID:       record.UserID,
		ScheduleID:   record.ScheduleID,
		FunctionType: record.FunctionType,
		Date:         record.Date,
		Message:      record.Message,
		Read:         record.Read,
		CreatedAt:    record.CreatedAt,
	}
}

func FromDataModelSlice(records []*notificationDatamodel.Notification) []*Notification {
	result := make([]*Notification, len(records))
	for i, record := range records {
		result[i] = FromDataModel(record)
	}
	return result
}
