// internal/middleware/capture_token.go
package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyc-verification-backend/internal/services"
	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

const captureTokenHeader = "X-Capture-Token"

// CaptureTokenAuth guards the capture endpoints the end user's device calls.
// The token is single-session: it must resolve to the session named in the
// URL, so a leaked token cannot touch any other session.
func CaptureTokenAuth(tokenStore services.CaptureTokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(captureTokenHeader)
			if token == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"capture token required",
				))
				return
			}

			sessionID, err := tokenStore.Resolve(r.Context(), token)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewInvalidCaptureTokenError())
				return
			}

			if urlSessionID := chi.URLParam(r, "sessionId"); urlSessionID != "" && urlSessionID != sessionID {
				utils.SendErrorResponse(w, apperrors.NewInvalidCaptureTokenError())
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
			ctx = context.WithValue(ctx, AuthMethodContextKey, "capture_token")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionIDFromContext returns the session the capture token resolved to.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionContextKey).(string)
	return sessionID, ok
}
