package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/geracaoeleita/roster-management/internal/transport"
	"github.com/geracaoeleita/roster-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service AuthService
}

func NewHandler(svc AuthService) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "username", dto.Username, "error", err)

		if _, ok := err.(ValidationError); ok {
			h.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// AuthMiddleware resolves the bearer token to a user record and stores
// it in the request context. Requests without a resolvable identity
// never reach the protected handlers.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		user, err := h.Service.CurrentUser(token)
		if err != nil {
			h.Logger.Warn("auth middleware: token resolution failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware gates a route group on the admin role. It runs after
// AuthMiddleware and relies on the identity it resolved.
func (h *Handler) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user == nil {
			h.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := RequireAdmin(user); err != nil {
			h.Logger.Warn("admin middleware: access denied",
				"user_id", user.ID,
				"role", user.Role)
			h.HandleServiceError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
