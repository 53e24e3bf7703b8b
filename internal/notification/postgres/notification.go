package postgres

import (
	"github.com/geracaoeleita/roster-management/internal"
	notificationDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/notification"
	"github.com/geracaoeleita/roster-management/internal/notification"
	"gorm.io/gorm"
)

// NotificationRepository implements the notification.Repository
// interface using GORM
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) GetByUserID(userID string, limit int) ([]*notification.Notification, error) {
	var records []*notificationDatamodel.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(records), nil
}

func (r *NotificationRepository) Create(n *notification.Notification) error {
	return r.db.Create(notification.ToDataModel(n)).Error
}

// MarkRead matches on both id and owner; a notification that exists but
// belongs to someone else is indistinguishable from one that does not
// exist.
func (r *NotificationRepository) MarkRead(id, userID string) error {
	result := r.db.Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteBySchedule(scheduleID string) error {
	return r.db.Where("schedule_id = ?", scheduleID).
		Delete(&notificationDatamodel.Notification{}).Error
}
