// internal/middleware/api_key.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/services"
	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

type contextKey string

const (
	APIKeyContextKey     contextKey = "api_key"
	TenantIDContextKey   contextKey = "tenant_id"
	SessionContextKey    contextKey = "session_id"
	AuthMethodContextKey contextKey = "auth_method"
)

// APIKeyAuth validates "Bearer ak_live_..." headers against the stored key
// hashes and scopes the request to the key's tenant.
func APIKeyAuth(apiKeyService services.APIKeyService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authorization header required",
				))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid authorization header format",
				))
				return
			}

			apiKey := strings.TrimPrefix(authHeader, "Bearer ")

			if !strings.HasPrefix(apiKey, "ak_live_") {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid API key format",
				))
				return
			}

			apiKeyRecord, err := apiKeyService.ValidateAPIKey(r.Context(), apiKey)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewInvalidAPIKeyError())
				return
			}

			ctx := context.WithValue(r.Context(), APIKeyContextKey, apiKeyRecord)
			ctx = context.WithValue(ctx, TenantIDContextKey, apiKeyRecord.TenantID)
			ctx = context.WithValue(ctx, AuthMethodContextKey, "api_key")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthOrAPIKey accepts either a dashboard bearer token or an API key on the
// same header, dispatching on the ak_live_ prefix.
func AuthOrAPIKey(apiKeyService services.APIKeyService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authorization header required",
				))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid authorization header format",
				))
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")

			if strings.HasPrefix(token, "ak_live_") {
				apiKeyRecord, err := apiKeyService.ValidateAPIKey(r.Context(), token)
				if err != nil {
					utils.SendErrorResponse(w, apperrors.NewInvalidAPIKeyError())
					return
				}

				ctx := context.WithValue(r.Context(), APIKeyContextKey, apiKeyRecord)
				ctx = context.WithValue(ctx, TenantIDContextKey, apiKeyRecord.TenantID)
				ctx = context.WithValue(ctx, AuthMethodContextKey, "api_key")

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := verifyBearerToken(token)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid or expired token",
				))
				return
			}

			ctx := context.WithValue(r.Context(), TenantIDContextKey, claims.TenantID())
			ctx = context.WithValue(ctx, AuthMethodContextKey, "bearer")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper functions to extract values from context
func GetAPIKeyFromContext(ctx context.Context) (*models.APIKey, bool) {
	apiKey, ok := ctx.Value(APIKeyContextKey).(*models.APIKey)
	return apiKey, ok
}

func GetTenantIDFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDContextKey).(string)
	return tenantID, ok
}

func GetAuthMethodFromContext(ctx context.Context) string {
	method, _ := ctx.Value(AuthMethodContextKey).(string)
	return method
}
