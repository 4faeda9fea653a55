package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wastewise/wastewise-console/internal/platform/httpx"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Handler serves the admin dashboard aggregate.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the dashboard endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.overview)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context(), shared.TokenFromContext(r.Context()))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": overview})
}
