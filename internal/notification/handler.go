package notification

import (
	"log/slog"
	"net/http"

	"github.com/geracaoeleita/roster-management/internal/auth"
	"github.com/geracaoeleita/roster-management/internal/transport"
	"github.com/geracaoeleita/roster-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListForUser(userID string) ([]*Notification, error)
	MarkRead(id, userID string) error
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

// ListNotifications handles GET /notifications
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notifications, err := h.Service.ListForUser(user.ID)
	if err != nil {
		h.Logger.Error("ListNotifications: service error", "user_id", user.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, notifications)
}

// MarkRead handles PATCH /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.MarkRead(id, user.ID); err != nil {
		h.Logger.Error("MarkRead: service error",
			"notification_id", id,
			"user_id", user.ID,
			"error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
