package timetables

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

// Handler serves timetable management for admins plus the collector's own
// schedule view.
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

// MountRoutes registers timetable management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Get("/{id}/crew", h.crew)
	r.Get("/collector/{collectorID}", h.byCollector)
}

// MountSelfRoutes registers the collector's own timetable listing.
func (h *Handler) MountSelfRoutes(r chi.Router) {
	r.Get("/timetables", h.mine)
}

// MountDwellerRoutes registers the resident-facing schedule. Residents see
// the full collection schedule, not a per-collector slice.
func (h *Handler) MountDwellerRoutes(r chi.Router) {
	r.Get("/timetables", h.list)
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

func (h *Handler) byCollector(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ByCollector(r.Context(), shared.TokenFromContext(r.Context()), chi.URLParam(r, "collectorID"))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	records, err := h.service.ByCollector(r.Context(), shared.TokenFromContext(r.Context()), principal.ID)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) crew(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.CrewMembers(r.Context(), shared.TokenFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form TimetableForm
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
		Entity:   "timetable",
		EntityID: record.ID,
	})
	httpx.JSON(w, http.StatusCreated, map[string]any{"data": record})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form TimetableForm
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
		Entity:   "timetable",
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
		Entity:   "timetable",
		EntityID: id,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
