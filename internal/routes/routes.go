// internal/routes/routes.go
package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"kyc-verification-backend/internal/handlers"
	"kyc-verification-backend/internal/middleware"
	"kyc-verification-backend/internal/services"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	APIKey  *handlers.APIKeyHandler
	IDType  *handlers.IDTypeHandler
	Usage   *handlers.UsageHandler
}

type Services struct {
	APIKey       services.APIKeyService
	Usage        services.UsageService
	CaptureToken services.CaptureTokenStore
}

// SetupRoutes wires three audiences onto one router: tenant servers (API
// key or dashboard token), the end user's capture device (capture token),
// and the operator dashboard (bearer token only).
func SetupRoutes(h *Handlers, s *Services) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger())
	r.Use(middleware.Recoverer())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(middleware.CORS())

	// Health check routes
	r.Get("/", h.Health.HealthCheck)
	r.Get("/health", h.Health.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Tenant-facing: create sessions and read their state.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthOrAPIKey(s.APIKey))
			r.Use(middleware.UsageTracker(s.Usage, "sessions"))

			r.Post("/sessions", h.Session.CreateSession)
			r.Get("/sessions/{sessionId}", h.Session.GetSession)
		})

		// Capture-facing: the step submissions made from the end user's
		// device, authenticated by the session's capture token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CaptureTokenAuth(s.CaptureToken))
			r.Use(middleware.UsageTracker(s.Usage, "capture"))

			r.Route("/sessions/{sessionId}", func(r chi.Router) {
				r.Get("/state", h.Session.GetCaptureState)
				r.Post("/id-scan", h.Session.SubmitIDScan)
				r.Put("/ocr-data", h.Session.SaveOCRData)
				r.Post("/selfie", h.Session.SubmitSelfie)
				r.Post("/liveness", h.Session.SubmitLiveness)
			})
		})

		// Dashboard-facing: key management and usage reporting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth())

			r.Route("/api-keys", func(r chi.Router) {
				r.Post("/", h.APIKey.CreateAPIKey)
				r.Get("/", h.APIKey.ListAPIKeys)
				r.Delete("/{keyPrefix}", h.APIKey.RevokeAPIKey)
			})

			r.Route("/id-types", func(r chi.Router) {
				r.Put("/", h.IDType.UpsertIDType)
				r.Get("/", h.IDType.ListIDTypes)
			})

			r.Route("/usage", func(r chi.Router) {
				r.Get("/stats", h.Usage.GetGlobalStats)
				r.Get("/tenants", h.Usage.GetTenantStats)
				r.Get("/history", h.Usage.GetUsageHistory)
			})
		})

		// ID type listing is also useful to tenant servers picking a
		// documentType for a new session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthOrAPIKey(s.APIKey))
			r.Get("/id-types/enabled", h.IDType.ListEnabledIDTypes)
		})
	})

	return r
}
