package schedule

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	"github.com/geracaoeleita/roster-management/internal/core/events"
	"github.com/google/uuid"
)

// maxRespondAttempts bounds the optimistic retry loop on response
// submission.
const maxRespondAttempts = 3

// EventPublisher is satisfied by the event bus; schedule writes publish
// fan-out events synchronously so notifications exist when the call
// returns.
type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

// Service handles schedule business logic
type Service struct {
	repo   Repository
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// List returns active schedules, newest date first.
func (s *Service) List() ([]*Schedule, error) {
	schedules, err := s.repo.GetAllActive()
	if err != nil {
		s.logger.Error("failed to list schedules", "error", err)
		return nil, internal.NewInternalError("failed to list schedules", err)
	}
	return schedules, nil
}

// Create persists a new schedule and fans out one notification per
// assigned user. Fan-out is best-effort: a failure partway through is
// logged, not rolled back.
func (s *Service) Create(ctx context.Context, creatorID string, dto ScheduleCreateDTO) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sched := &Schedule{
		ID:          uuid.NewString(),
		Date:        dto.Date,
		DayType:     DayType(dto.DayType),
		Assignments: dto.ToAssignments(),
		CreatedBy:   creatorID,
		Active:      true,
		Version:     1,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(sched); err != nil {
		s.logger.Error("failed to create schedule", "date", dto.Date, "error", err)
		return nil, internal.NewInternalError("failed to create schedule", err)
	}

	event := events.NewScheduleCreatedEvent(sched.ID, sched.Date, assignmentNotices(sched.Assignments))
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Error("notification fan-out incomplete", "schedule_id", sched.ID, "error", err)
	}

	s.logger.Info("schedule created",
		"schedule_id", sched.ID,
		"date", sched.Date,
		"day_type", sched.DayType,
		"assignments", len(sched.Assignments))

	return sched, nil
}

// Update replaces date, day type and assignments wholesale; responses
// collected under the old assignment list are gone unless the caller
// resends them. Old notifications for the schedule are purged and
// regenerated by the fan-out subscriber, resetting read state.
func (s *Service) Update(ctx context.Context, id string, dto ScheduleCreateDTO) (*Schedule, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sched, err := s.repo.GetActiveByID(id)
	if err != nil {
		return nil, internal.ErrScheduleNotFound
	}

	sched.Date = dto.Date
	sched.DayType = DayType(dto.DayType)
	sched.Assignments = dto.ToAssignments()

	if err := s.repo.Update(sched); err != nil {
		s.logger.Error("failed to update schedule", "schedule_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update schedule", err)
	}

	event := events.NewScheduleUpdatedEvent(sched.ID, sched.Date, assignmentNotices(sched.Assignments))
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Error("notification fan-out incomplete", "schedule_id", sched.ID, "error", err)
	}

	s.logger.Info("schedule updated", "schedule_id", sched.ID, "date", sched.Date)

	return sched, nil
}

// Delete soft-deletes: the schedule drops out of list views but stays
// resolvable by id, and its notifications are untouched.
func (s *Service) Delete(id string) error {
	if err := s.repo.SoftDelete(id); err != nil {
		return err
	}

	s.logger.Info("schedule deleted", "schedule_id", id)
	return nil
}

// Respond records the caller's answer for a function they are assigned
// to. Soft-deleted schedules still accept responses. The write is a
// conditional replace on the schedule version, retried on conflict, so
// a concurrent responder's entry is never silently lost.
func (s *Service) Respond(ctx context.Context, userID string, dto RespondDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	for attempt := 0; attempt < maxRespondAttempts; attempt++ {
		sched, err := s.repo.GetByID(dto.ScheduleID)
		if err != nil {
			return internal.ErrScheduleNotFound
		}

		matchIdx := -1
		matches := 0
		for i := range sched.Assignments {
			a := &sched.Assignments[i]
			if a.FunctionType == FunctionType(dto.FunctionType) && containsString(a.UserIDs, userID) {
				matches++
				if matchIdx < 0 {
					matchIdx = i
				}
			}
		}

		if matchIdx < 0 {
			return internal.ErrNotAssigned
		}
		if matches > 1 {
			// First match by list order wins; administrator intent is
			// ambiguous when one function appears in several assignments.
			s.logger.Warn("user assigned to same function in multiple assignments",
				"schedule_id", sched.ID,
				"function_type", dto.FunctionType,
				"user_id", userID,
				"matches", matches)
		}

		target := &sched.Assignments[matchIdx]
		if target.Responses == nil {
			target.Responses = map[string]Response{}
		}
		target.Responses[userID] = Response{
			Status:    ResponseStatus(dto.Status),
			Reason:    dto.Reason,
			Timestamp: time.Now().UTC(),
		}

		err = s.repo.UpdateAssignments(sched.ID, sched.Assignments, sched.Version)
		if err == nil {
			s.logger.Info("response recorded",
				"schedule_id", sched.ID,
				"user_id", userID,
				"function_type", dto.FunctionType,
				"status", dto.Status)
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			s.logger.Error("failed to record response", "schedule_id", sched.ID, "error", err)
			return internal.NewInternalError("failed to record response", err)
		}

		s.logger.Debug("response write lost version race, retrying",
			"schedule_id", sched.ID,
			"attempt", attempt+1)
	}

	return internal.NewInternalError("failed to record response after retries", ErrVersionConflict)
}

func assignmentNotices(assignments []Assignment) []events.AssignmentNotice {
	notices := make([]events.AssignmentNotice, len(assignments))
	for i, a := range assignments {
		notices[i] = events.AssignmentNotice{
			FunctionType: string(a.FunctionType),
			UserIDs:      a.UserIDs,
		}
	}
	return notices
}
