package schedule

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/geracaoeleita/roster-management/internal/auth"
	"github.com/geracaoeleita/roster-management/internal/transport"
	"github.com/geracaoeleita/roster-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List() ([]*Schedule, error)
	Create(ctx context.Context, creatorID string, dto ScheduleCreateDTO) (*Schedule, error)
	Update(ctx context.Context, id string, dto ScheduleCreateDTO) (*Schedule, error)
	Delete(id string) error
	Respond(ctx context.Context, userID string, dto RespondDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// ListSchedules handles GET /schedules
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListSchedules: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, schedules)
}

// CreateSchedule handles POST /schedules
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ScheduleCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.Create(r.Context(), user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateSchedule: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sched)
}

// UpdateSchedule handles PUT /schedules/{id}
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto ScheduleCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sched, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateSchedule: service error", "schedule_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sched)
}

// DeleteSchedule handles DELETE /schedules/{id}
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteSchedule: service error", "schedule_id", id, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "schedule deleted"})
}

// Respond handles POST /schedule-response
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto RespondDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Respond(r.Context(), user.ID, dto); err != nil {
		h.Logger.Error("Respond: service error",
			"schedule_id", dto.ScheduleID,
			"user_id", user.ID,
			"error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "response recorded"})
}
