package schedule

import (
	"time"

	"gorm.io/datatypes"
)

// Schedule is the persistence model for the schedules collection.
// Assignments (and the per-user responses nested inside them) are
// embedded as a single JSON document; they have no lifecycle of their
// own. Version backs the optimistic concurrency check on assignment
// updates.
type Schedule struct {
	ID          string         `gorm:"primaryKey;size:36"`
	Date        string         `gorm:"column:date;size:10;not null;index"`
	DayType     string         `gorm:"column:day_type;size:20;not null"`
	Assignments datatypes.JSON `gorm:"column:assignments"`
	CreatedBy   string         `gorm:"column:created_by;size:36"`
	IsActive    bool           `gorm:"column:is_active;default:true"`
	Version     int64          `gorm:"column:version;default:1"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}
