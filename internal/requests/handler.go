package requests

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wastewise/wastewise-console/internal/audit"
	"github.com/wastewise/wastewise-console/internal/platform/httpx"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/upstream"
)

// Session key remembering the previous listing params so a filter change
// snaps the page back to 1.
const listParamsSessionKey = "requests_list_params"

// Handler serves the service-request listing, analytics and workflow
// endpoints for admins plus the collector's own assignment view.
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

// MountRoutes registers request management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/analytics", h.analytics)
	r.Put("/{id}/status", h.setStatus)
}

// MountSelfRoutes registers the collector's own assignments listing and
// the workflow moves on those assignments.
func (h *Handler) MountSelfRoutes(r chi.Router) {
	r.Get("/requests", h.mine)
	r.Put("/requests/{id}/status", h.setStatus)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := paramsFromQuery(r).Sanitize()
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if prev, ok := loadPrevParams(sess); ok {
			params = params.ResetPage(prev)
		}
		storeParams(sess, params)
	}

	result, err := h.service.List(r.Context(), shared.TokenFromContext(r.Context()), params)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data": result.Data,
		"meta": result.Meta,
	})
}

func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Analytics(r.Context(), shared.TokenFromContext(r.Context()))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	records, err := h.service.ForCollector(r.Context(), shared.TokenFromContext(r.Context()), principal.ID)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var form StatusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	if !KnownStatus(form.Status) {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "unknown status "+form.Status)
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.service.UpdateStatus(r.Context(), shared.TokenFromContext(r.Context()), id, form.Status)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "status",
		Entity:   "request",
		EntityID: id,
		Meta:     map[string]any{"status": form.Status},
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
}

func paramsFromQuery(r *http.Request) ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return ListParams{
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Q:         q.Get("q"),
		Status:    q.Get("status"),
		Type:      q.Get("type"),
		DateFrom:  q.Get("dateFrom"),
		DateTo:    q.Get("dateTo"),
	}
}

func loadPrevParams(sess *shared.Session) (ListParams, bool) {
	raw := sess.Get(listParamsSessionKey)
	if raw == "" {
		return ListParams{}, false
	}
	var prev ListParams
	if err := json.Unmarshal([]byte(raw), &prev); err != nil {
		return ListParams{}, false
	}
	return prev, true
}

func storeParams(sess *shared.Session, params ListParams) {
	data, err := json.Marshal(params)
	if err != nil {
		return
	}
	sess.Set(listParamsSessionKey, string(data))
}
