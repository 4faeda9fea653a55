package collectors

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

const maxUploadBytes = 10 << 20

// Handler serves collector management for admins plus the self-service
// endpoints a logged-in collector uses.
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

// MountRoutes registers admin-facing collector management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.register)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.remove)
	r.Patch("/{id}/status", h.setStatus)
}

// MountSelfRoutes registers the collector's own profile and duty toggle.
func (h *Handler) MountSelfRoutes(r chi.Router) {
	r.Get("/profile", h.profile)
	r.Patch("/status", h.setOwnStatus)
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

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), shared.TokenFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "expected multipart form data")
		return
	}
	form := RegisterCollectorForm{
		FullName:      r.PostFormValue("fullName"),
		Email:         r.PostFormValue("email"),
		PhoneNumber:   r.PostFormValue("phoneNumber"),
		Password:      r.PostFormValue("password"),
		AddressLine1:  r.PostFormValue("addressLine1"),
		HouseNumber:   r.PostFormValue("houseNumber"),
		City:          r.PostFormValue("city"),
		TaxNumber:     r.PostFormValue("aTaxNumber"),
		PostalCode:    r.PostFormValue("postalCode"),
		VehicleType:   r.PostFormValue("vehicleType"),
		VehicleNumber: r.PostFormValue("vehicleNumber"),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	var picture *upstream.FilePart
	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer func() {
			_ = file.Close()
		}()
		picture = &upstream.FilePart{Field: "profilePicture", Filename: header.Filename, Content: file}
	}

	record, err := h.service.Register(r.Context(), shared.TokenFromContext(r.Context()), form, picture)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "create",
		Entity:   "collector",
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
		Entity:   "collector",
		EntityID: id,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	h.applyStatus(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	record, err := h.service.Get(r.Context(), shared.TokenFromContext(r.Context()), principal.ID)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
}

func (h *Handler) setOwnStatus(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	h.applyStatus(w, r, principal.ID)
}

func (h *Handler) applyStatus(w http.ResponseWriter, r *http.Request, id string) {
	var form StatusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	record, err := h.service.SetStatus(r.Context(), shared.TokenFromContext(r.Context()), id, form.IsOnline)
	if err != nil {
		upstream.RespondError(w, r, h.logger, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Entry{
		ActorID:  shared.ActorIDFromContext(r.Context()),
		Action:   "status",
		Entity:   "collector",
		EntityID: id,
		Meta:     map[string]any{"isOnline": record.IsOnline},
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"data": record})
}
