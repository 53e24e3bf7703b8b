package postgres

import (
	"encoding/json"
	"errors"

	"github.com/geracaoeleita/roster-management/internal"
	scheduleDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/schedule"
	"github.com/geracaoeleita/roster-management/internal/schedule"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScheduleRepository implements the schedule.Repository interface using GORM
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) schedule.Repository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) GetAllActive() ([]*schedule.Schedule, error) {
	var records []*scheduleDatamodel.Schedule
	err := r.db.Where("is_active = ?", true).
		Order("date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	schedules := make([]*schedule.Schedule, 0, len(records))
	for _, record := range records {
		s, err := schedule.FromDataModel(record)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

func (r *ScheduleRepository) GetByID(id string) (*schedule.Schedule, error) {
	var record scheduleDatamodel.Schedule
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule.FromDataModel(&record)
}

func (r *ScheduleRepository) GetActiveByID(id string) (*schedule.Schedule, error) {
	var record scheduleDatamodel.Schedule
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule.FromDataModel(&record)
}

func (r *ScheduleRepository) Create(s *schedule.Schedule) error {
	record, err := schedule.ToDataModel(s)
	if err != nil {
		return err
	}
	return r.db.Create(record).Error
}

func (r *ScheduleRepository) Update(s *schedule.Schedule) error {
	record, err := schedule.ToDataModel(s)
	if err != nil {
		return err
	}

	result := r.db.Model(&scheduleDatamodel.Schedule{}).
		Where("id = ? AND is_active = ?", s.ID, true).
		Updates(map[string]interface{}{
			"date":        record.Date,
			"day_type":    record.DayType,
			"assignments": record.Assignments,
			"version":     gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrScheduleNotFound
	}
	return nil
}

// UpdateAssignments is a conditional replace of the assignments
// document keyed on the version the caller read. Zero rows affected
// means another writer bumped the version first.
func (r *ScheduleRepository) UpdateAssignments(id string, assignments []schedule.Assignment, expectedVersion int64) error {
	data, err := json.Marshal(assignments)
	if err != nil {
		return err
	}

	result := r.db.Model(&scheduleDatamodel.Schedule{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"assignments": datatypes.JSON(data),
			"version":     expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return schedule.ErrVersionConflict
	}
	return nil
}

func (r *ScheduleRepository) SoftDelete(id string) error {
	result := r.db.Model(&scheduleDatamodel.Schedule{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrScheduleNotFound
	}
	return nil
}
