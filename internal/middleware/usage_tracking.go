// internal/middleware/usage_tracking.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/services"
)

// UsageTracker records one usage document per request to the wrapped routes.
// Recording happens after the response is written, in a goroutine, so a slow
// or unavailable usage collection never delays the caller.
func UsageTracker(usageService services.UsageService, serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			tenantID, _ := GetTenantIDFromContext(r.Context())
			sessionID, _ := GetSessionIDFromContext(r.Context())

			usage := &models.ServiceUsage{
				TenantID:    tenantID,
				SessionID:   sessionID,
				ServiceName: serviceName,
				Endpoint:    r.URL.Path,
				Method:      r.Method,
				Success:     ww.statusCode < 400,
				RequestID:   middleware.GetReqID(r.Context()),
				IPAddress:   r.RemoteAddr,
				AuthMethod:  GetAuthMethodFromContext(r.Context()),
				ProcessTime: time.Since(startTime).Milliseconds(),
				CreatedAt:   time.Now(),
			}

			go func() {
				trackCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := usageService.TrackUsage(trackCtx, usage); err != nil {
					zap.L().Warn("failed to track usage",
						zap.String("endpoint", usage.Endpoint),
						zap.Error(err))
				}
			}()
		})
	}
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
