package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/fintrustai/compliance-copilot/internal/application/analysis"
	"github.com/fintrustai/compliance-copilot/internal/domain/ai"
	"github.com/fintrustai/compliance-copilot/internal/domain/audit"
	"github.com/fintrustai/compliance-copilot/internal/domain/compliance"
	storagedomain "github.com/fintrustai/compliance-copilot/internal/domain/storage"
	"github.com/fintrustai/compliance-copilot/internal/infra/vanta"
	"github.com/fintrustai/compliance-copilot/internal/middleware"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Analysis    *appanalysis.Service
	Vanta       *vanta.Client
	States      compliance.StateStore
	Artifacts   storagedomain.ArtifactStore
	Trail       audit.Trail
	AuthSecret  []byte
	TokenTTL    time.Duration
	ModelName   string
	ServiceName string
	Health      map[string]middleware.HealthChecker
	Log         *zap.Logger
}

type Router struct {
	deps Deps
}

func NewRouter(deps Deps) http.Handler {
	r := &Router{deps: deps}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.Logging(deps.Log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/", r.handleRoot)
	mux.Get("/health", middleware.HealthHandler(deps.Health))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/auth", func(rt chi.Router) {
		rt.Post("/login", r.wrap(r.handleLogin))
		rt.Group(func(pt chi.Router) {
			pt.Use(middleware.JWTAuth(deps.AuthSecret))
			pt.Get("/me", r.wrap(r.handleMe))
			pt.Post("/logout", r.wrap(r.handleLogout))
		})
	})

	mux.Route("/analyze", func(rt chi.Router) {
		rt.Use(middleware.JWTAuth(deps.AuthSecret))
		rt.Use(middleware.RateLimit(30, 1))
		rt.Post("/kyc", r.wrap(r.handleAnalyzeKYC))
		rt.Post("/transaction", r.wrap(r.handleAnalyzeTransaction))
		rt.Post("/comprehensive", r.wrap(r.handleAnalyzeComprehensive))
		rt.Get("/status", r.wrap(r.handleAnalyzeStatus))
	})

	mux.Route("/vanta", func(rt chi.Router) {
		rt.Get("/auth/authorize", r.wrap(r.handleVantaAuthorize))
		rt.Get("/auth/callback", r.wrap(r.handleVantaCallback))
		rt.Post("/auth/token", r.wrap(r.handleVantaSetToken))
		rt.Get("/controls", r.wrap(r.handleVantaControls))
		rt.Get("/risks", r.wrap(r.handleVantaRisks))
		rt.Get("/evidence/{controlID}", r.wrap(r.handleVantaEvidence))
		rt.Get("/organization/status", r.wrap(r.handleVantaOrgStatus))
		rt.Get("/compliance-posture", r.wrap(r.handleVantaPosture))
		rt.Get("/summary", r.wrap(r.handleVantaSummary))
	})

	mux.Route("/audit", func(rt chi.Router) {
		rt.Use(middleware.JWTAuth(deps.AuthSecret))
		rt.Get("/sars", r.wrap(r.handleListSARs))
		rt.Get("/sars/{sarID}", r.wrap(r.handleGetSAR))
		rt.Post("/logs", r.wrap(r.handleCreateAuditLog))
		rt.Get("/reports", r.wrap(r.handleListReports))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller mistakes so wrap maps them to 400.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error { return badRequestError{err: err} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var br badRequestError
		switch {
		case errors.As(err, &br):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, storagedomain.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ai.ErrModelUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, compliance.ErrProviderUnavailable):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": r.deps.ServiceName,
		"status":  "operational",
		"features": []string{
			"AI-driven KYC and transaction risk assessment",
			"Compliance posture gating",
			"SAR generation and encrypted storage",
			"Full audit trail",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// envelope is the response wrapper used by the vanta and audit surfaces.
func envelope(data any) map[string]any {
	return map[string]any{
		"status":    "success",
		"data":      data,
		"timestamp": time.Now().Format(time.RFC3339),
	}
}
