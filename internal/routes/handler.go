package routes

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

// Handler serves the route-management endpoints.
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

// MountRoutes registers route management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
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
	var form RouteForm
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
		Entity:   "route",
		EntityID: record.ID,
	})
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": record})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form RouteForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.service.Update(r.Context(), shared.TokenFromContext(r.Context()), id, form)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "update",
		Entity:   "route",
		EntityID: id,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
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
		Entity:   "route",
		EntityID: id,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
