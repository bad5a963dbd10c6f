// internal/services/ocr_extraction_service_test.go
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kyc-verification-backend/internal/models"
)

func TestProcessExtraction(t *testing.T) {
	req := &models.OCRExtractionRequest{
		ReqID:          "req-1",
		DocBase64Front: "ZnJvbnQtaW1hZ2UtYnl0ZXM=",
		DocType:        "ethiopian_id",
	}

	t.Run("successful extraction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "req-1", payload["req_id"])
			require.Equal(t, "ethiopian_id", payload["doc_type"])
			require.NotEmpty(t, payload["doc_base64_front"])

			json.NewEncoder(w).Encode(map[string]any{
				"req_id":  payload["req_id"],
				"success": true,
				"data": map[string]any{
					"full_name": "Abebe Bikila",
					"id_number": "ID123456",
				},
			})
		}))
		defer server.Close()

		service := NewOCRExtractionAPIService(server.URL)
		result, err := service.ProcessExtraction(context.Background(), req)
		require.NoError(t, err)
		require.True(t, result.Success)
		require.Equal(t, "completed", result.Status)
		require.Equal(t, "Abebe Bikila", result.Fields["full_name"])
	})

	t.Run("engine reports failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"req_id":        "req-1",
				"success":       false,
				"error_message": "document unreadable",
			})
		}))
		defer server.Close()

		service := NewOCRExtractionAPIService(server.URL)
		result, err := service.ProcessExtraction(context.Background(), req)
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, "failed", result.Status)
		require.Equal(t, "document unreadable", result.Message)
	})

	t.Run("non-OK status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		service := NewOCRExtractionAPIService(server.URL)
		_, err := service.ProcessExtraction(context.Background(), req)
		require.Error(t, err)
	})
}
