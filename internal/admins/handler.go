package admins

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wastewise/wastewise-console/internal/audit"
	"github.com/wastewise/wastewise-console/internal/platform/httpx"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Handler serves the admin-management endpoints consumed by the console
// front-end.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	recorder  *audit.Recorder
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *audit.Recorder) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers admin management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.remove)
	r.Patch("/{id}/status", h.setStatus)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), shared.TokenFromContext(r.Context()))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	records = Filter(records, r.URL.Query().Get("q"))
	httpx.JSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form CreateAdminForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	record, err := h.service.Create(r.Context(), shared.TokenFromContext(r.Context()), form)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "create",
		Entity:   "admin",
		EntityID: record.ID,
	})
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": record})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if !httpx.Confirmed(r) {
		httpx.Problem(w, http.StatusBadRequest, "Confirmation Required", "deletes must carry confirm=true")
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), shared.TokenFromContext(r.Context()), id); err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "delete",
		Entity:   "admin",
		EntityID: id,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var form StatusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	id := chi.URLParam(r, "id")
	record, err := h.service.SetStatus(r.Context(), shared.TokenFromContext(r.Context()), id, form.IsActive)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "status",
		Entity:   "admin",
		EntityID: id,
		Meta:     map[string]any{"isActive": record.IsActive},
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
}
