package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wastewise/wastewise-console/internal/admins"
	"github.com/wastewise/wastewise-console/internal/auth"
	"github.com/wastewise/wastewise-console/internal/collectors"
	"github.com/wastewise/wastewise-console/internal/dashboard"
	"github.com/wastewise/wastewise-console/internal/dwellers"
	"github.com/wastewise/wastewise-console/internal/observability"
	"github.com/wastewise/wastewise-console/internal/requests"
	"github.com/wastewise/wastewise-console/internal/routes"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/timetables"
	"github.com/wastewise/wastewise-console/internal/view"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Templates      *view.Engine
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	AdminsHandler    *admins.Handler
	DwellersHandler  *dwellers.Handler
	CollectorHandler *collectors.Handler
	RoutesHandler    *routes.Handler
	TimetableHandler *timetables.Handler
	RequestsHandler  *requests.Handler
	DashboardHandler *dashboard.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.Principal() == nil {
			http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
			return
		}

		csrfToken, _ := params.CSRFManager.EnsureToken(r.Context(), sess)
		data := view.TemplateData{
			Title:       "WasteWise Console",
			CSRFToken:   csrfToken,
			Flash:       sess.PopFlash(),
			Principal:   sess.Principal(),
			CurrentPath: r.URL.Path,
		}
		if err := params.Templates.Render(w, "pages/home.html", data); err != nil {
			params.Logger.Error("render home", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/admin", func(r chi.Router) {
		r.Use(shared.RequireRole(params.Logger, shared.RoleAdmin, shared.RoleSuperAdmin))
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
		r.Route("/admins", params.AdminsHandler.MountRoutes)
		r.Route("/users", params.DwellersHandler.MountRoutes)
		r.Route("/collectors", params.CollectorHandler.MountRoutes)
		r.Route("/routes", params.RoutesHandler.MountRoutes)
		r.Route("/timetables", params.TimetableHandler.MountRoutes)
		r.Route("/requests", params.RequestsHandler.MountRoutes)
	})

	r.Route("/collector", func(r chi.Router) {
		r.Use(shared.RequireRole(params.Logger, shared.RoleCollector))
		params.CollectorHandler.MountSelfRoutes(r)
		params.TimetableHandler.MountSelfRoutes(r)
		params.RequestsHandler.MountSelfRoutes(r)
	})

	r.Route("/dweller", func(r chi.Router) {
		r.Use(shared.RequireRole(params.Logger, shared.RoleDweller))
		params.DwellersHandler.MountSelfRoutes(r)
		params.TimetableHandler.MountDwellerRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
