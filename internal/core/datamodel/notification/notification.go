package notification

import "time"

// Notification is the persistence model for the notifications
// collection. Date is denormalized from the schedule at creation time.
type Notification struct {
	ID           string    `gorm:"primaryKey;size:36"`
	UserID       string    `gorm:"column:user_id;size:36;index;not null"`
	ScheduleID   string    `gorm:"column:schedule_id;size:36;index;not null"`
	FunctionType string    `gorm:"column:function_type;size:30"`
	Date         string    `gorm:"column:date;size:10"`
	Message      string    `gorm:"column:message"`
	Read         bool      `gorm:"column:read;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
