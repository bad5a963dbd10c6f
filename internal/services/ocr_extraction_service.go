// internal/services/ocr_extraction_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kyc-verification-backend/internal/models"
)

type OCRExtractionAPIService interface {
	ProcessExtraction(ctx context.Context, req *models.OCRExtractionRequest) (*models.OCRExtractionResult, error)
}

type ocrExtractionAPIService struct {
	httpClient *http.Client
	apiURL     string
}

func NewOCRExtractionAPIService(apiURL string) OCRExtractionAPIService {
	return &ocrExtractionAPIService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL: apiURL,
	}
}

func (s *ocrExtractionAPIService) ProcessExtraction(ctx context.Context, req *models.OCRExtractionRequest) (*models.OCRExtractionResult, error) {
	// Prepare the request payload exactly as expected by the API
	payload := map[string]interface{}{
		"req_id":           req.ReqID,
		"doc_base64_front": req.DocBase64Front,
		"doc_base64_back":  req.DocBase64Back,
		"doc_type":         req.DocType,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Log the request without the base64 payloads
	zap.L().Debug("calling OCR extraction API",
		zap.String("url", s.apiURL),
		zap.String("req_id", req.ReqID),
		zap.String("doc_type", req.DocType),
		zap.Int("front_len", len(req.DocBase64Front)),
		zap.Int("back_len", len(req.DocBase64Back)))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call OCR extraction API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR extraction API returned non-OK status %d: %s", resp.StatusCode, string(body))
	}

	// Parse the response - exact format from API specification. Data is left
	// loosely typed on purpose: the engine's field names vary by document
	// type and vendor, and the mapper downstream handles the synonyms.
	var apiResponse struct {
		ReqID        string         `json:"req_id"`
		Success      bool           `json:"success"`
		ErrorMessage *string        `json:"error_message"`
		Data         map[string]any `json:"data"`
	}

	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	result := &models.OCRExtractionResult{
		ReqID:   apiResponse.ReqID,
		Success: apiResponse.Success,
	}

	if apiResponse.Success {
		result.Status = "completed"
		result.Fields = apiResponse.Data
		result.Message = "OCR extraction completed successfully"
	} else {
		result.Status = "failed"
		if apiResponse.ErrorMessage != nil {
			result.Message = *apiResponse.ErrorMessage
		} else {
			result.Message = "OCR extraction failed with unknown error"
		}
	}

	zap.L().Info("OCR extraction API result",
		zap.String("req_id", result.ReqID),
		zap.Bool("success", result.Success),
		zap.String("status", result.Status),
		zap.Int("field_count", len(result.Fields)))

	return result, nil
}
