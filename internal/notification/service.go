package notification

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	"github.com/google/uuid"
)

// listLimit caps how many notifications a user sees; older ones are
// simply not returned.
const listLimit = 100

// Service handles notification business logic
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListForUser returns the caller's own notifications, newest first.
func (s *Service) ListForUser(userID string) ([]*Notification, error) {
	notifications, err := s.repo.GetByUserID(userID, listLimit)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkRead marks one of the caller's notifications as read. A foreign
// or unknown id both surface as not found.
func (s *Service) MarkRead(id, userID string) error {
	if err := s.repo.MarkRead(id, userID); err != nil {
		return err
	}

	s.logger.Info("notification marked read", "notification_id", id, "user_id", userID)
	return nil
}

// AssignmentRef is one function with the users assigned to it, as seen
// by the fan-out.
type AssignmentRef struct {
	FunctionType string
	UserIDs      []string
}

// FanOut creates one notification per (assignment, assigned user)
// pair. Failures are logged and the loop continues; there is no
// compensating cleanup for partially created sets.
func (s *Service) FanOut(scheduleID, date string, assignments []AssignmentRef, updated bool) error {
	var failed int
	for _, a := range assignments {
		for _, userID := range a.UserIDs {
			n := &Notification{
				ID:           uuid.NewString(),
				UserID:       userID,
				ScheduleID:   scheduleID,
				FunctionType: a.FunctionType,
				Date:         date,
				Message:      buildMessage(a.FunctionType, date, updated),
				Read:         false,
				CreatedAt:    time.Now().UTC(),
			}
			if err := s.repo.Create(n); err != nil {
				failed++
				s.logger.Error("failed to create notification",
					"schedule_id", scheduleID,
					"user_id", userID,
					"error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("fan-out incomplete: %d notification(s) not created", failed)
	}
	return nil
}

// PurgeForSchedule removes all notifications for the schedule,
// including already-read ones. Called before regeneration on schedule
// update; never called on soft-delete.
func (s *Service) PurgeForSchedule(scheduleID string) error {
	if err := s.repo.DeleteBySchedule(scheduleID); err != nil {
		s.logger.Error("failed to purge notifications", "schedule_id", scheduleID, "error", err)
		return err
	}
	return nil
}

func buildMessage(functionType, date string, updated bool) string {
	msg := fmt.Sprintf("You have been assigned to %s on %s", functionType, date)
	if updated {
		msg += " (schedule updated)"
	}
	return msg
}
