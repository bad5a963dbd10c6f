// internal/middleware/auth.go
package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "kyc-verification-backend/pkg/errors"
	"kyc-verification-backend/pkg/utils"
)

// TenantClaims is the subset of the dashboard IdP token we care about. The
// tenant comes from the org_code claim, falling back to sub for personal
// accounts.
type TenantClaims struct {
	Email   string `json:"email"`
	OrgCode string `json:"org_code"`
	jwt.RegisteredClaims
}

func (c *TenantClaims) TenantID() string {
	if c.OrgCode != "" {
		return c.OrgCode
	}
	return c.Subject
}

// JWKS structures
type JWKS struct {
	Keys []JWK `json:"keys"`
}

type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
	Alg string `json:"alg"`
}

// Auth validates dashboard bearer tokens (RS256, verified against the
// issuer's JWKS endpoint) and puts the tenant on the request context.
func Auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authentication token not found",
				))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"invalid authorization format. Expected: Bearer <token>",
				))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"bearer token is empty",
				))
				return
			}

			claims, err := verifyBearerToken(tokenString)
			if err != nil {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"authentication failed: "+err.Error(),
				))
				return
			}

			if claims.TenantID() == "" {
				utils.SendErrorResponse(w, apperrors.NewAppError(
					apperrors.ErrUnauthorized,
					http.StatusUnauthorized,
					"tenant not found in token",
				))
				return
			}

			ctx := context.WithValue(r.Context(), TenantIDContextKey, claims.TenantID())
			ctx = context.WithValue(ctx, AuthMethodContextKey, "bearer")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// verifyBearerToken verifies an RS256 token against the configured issuer.
func verifyBearerToken(tokenString string) (*TenantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid not found in token header")
		}

		publicKey, err := getPublicKeyFromJWKS(kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get public key: %v", err)
		}

		return publicKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TenantClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	issuerURL := os.Getenv("AUTH_ISSUER_URL")
	if issuerURL == "" {
		return nil, fmt.Errorf("AUTH_ISSUER_URL environment variable not set")
	}

	if claims.Issuer != issuerURL {
		return nil, fmt.Errorf("invalid issuer")
	}

	return claims, nil
}

// getPublicKeyFromJWKS fetches the public key from the issuer's JWKS endpoint
func getPublicKeyFromJWKS(kid string) (*rsa.PublicKey, error) {
	issuerURL := os.Getenv("AUTH_ISSUER_URL")
	if issuerURL == "" {
		return nil, fmt.Errorf("AUTH_ISSUER_URL environment variable not set")
	}

	jwksURL := os.Getenv("AUTH_JWKS_URI")
	if jwksURL == "" {
		jwksURL = issuerURL + "/.well-known/jwks.json"
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Get(jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %v", err)
	}

	for _, key := range jwks.Keys {
		if key.Kid == kid {
			return jwkToRSAPublicKey(key)
		}
	}

	return nil, fmt.Errorf("key with kid %s not found", kid)
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk JWK) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %v", err)
	}

	eb, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %v", err)
	}

	n := new(big.Int).SetBytes(nb)
	e := new(big.Int).SetBytes(eb)

	publicKey := &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}

	return publicKey, nil
}
