package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geracaoeleita/roster-management/internal/core/events"
)

// EventHandler subscribes the notification fan-out to schedule writes.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleScheduleCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(*events.ScheduleCreatedEvent)
	if !ok {
		return fmt.Errorf("expected ScheduleCreatedEvent, got %T", event)
	}

	h.logger.Info("handling schedule created event",
		"schedule_id", created.ScheduleID,
		"event_id", created.EventID())

	return h.service.FanOut(created.ScheduleID, created.Date, toRefs(created.Assignments), false)
}

// HandleScheduleUpdated purges the schedule's old notification set
// before regenerating it, so users no longer assigned keep no stale
// entries. Read state of replaced notifications is not carried over.
func (h *EventHandler) HandleScheduleUpdated(ctx context.Context, event events.Event) error {
	updated, ok := event.(*events.ScheduleUpdatedEvent)
	if !ok {
		return fmt.Errorf("expected ScheduleUpdatedEvent, got %T", event)
	}

	h.logger.Info("handling schedule updated event",
		"schedule_id", updated.ScheduleID,
		"event_id", updated.EventID())

	if err := h.service.PurgeForSchedule(updated.ScheduleID); err != nil {
		return err
	}

	return h.service.FanOut(updated.ScheduleID, updated.Date, toRefs(updated.Assignments), true)
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeScheduleCreated, h.HandleScheduleCreated)
	eventBus.Subscribe(events.EventTypeScheduleUpdated, h.HandleScheduleUpdated)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeScheduleCreated, events.EventTypeScheduleUpdated})
}

func toRefs(notices []events.AssignmentNotice) []AssignmentRef {
	refs := make([]AssignmentRef, len(notices))
	for i, n := range notices {
		refs[i] = AssignmentRef{
			FunctionType: n.FunctionType,
			UserIDs:      n.UserIDs,
		}
	}
	return refs
}
