// internal/services/face_detection_service.go
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

type FaceDetectionAPIService interface {
	ProcessFaceDetection(ctx context.Context, req *models.FaceDetectionRequest) (*models.FaceDetectionResult, error)
}

type faceDetectionAPIService struct {
	httpClient *http.Client
	apiURL     string
}

func NewFaceDetectionAPIService(apiURL string) FaceDetectionAPIService {
	return &faceDetectionAPIService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL: apiURL,
	}
}

func (s *faceDetectionAPIService) ProcessFaceDetection(ctx context.Context, req *models.FaceDetectionRequest) (*models.FaceDetectionResult, error) {
	payload := map[string]interface{}{
		"req_id":     req.ReqID,
		"doc_base64": req.DocBase64,
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

	zap.L().Debug("calling face detection API",
		zap.String("url", s.apiURL),
		zap.String("req_id", req.ReqID),
		zap.Int("image_len", len(req.DocBase64)))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call face detection API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("face detection API returned non-OK status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		ReqID        string  `json:"req_id"`
		Success      bool    `json:"success"`
		ErrorMessage *string `json:"error_message"`
		Data         *struct {
			FaceCount  int     `json:"face_count"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	result := &models.FaceDetectionResult{
		ReqID:   apiResponse.ReqID,
		Success: apiResponse.Success,
	}

	if apiResponse.Success {
		result.Status = "completed"
		result.Message = "Face detection completed successfully"
		if apiResponse.Data != nil {
			result.Data = &models.FaceDetectionData{
				FaceCount:  apiResponse.Data.FaceCount,
				Confidence: apiResponse.Data.Confidence,
			}
		}
	} else {
		result.Status = "failed"
		if apiResponse.ErrorMessage != nil {
			result.Message = *apiResponse.ErrorMessage
		} else {
			result.Message = "Face detection failed with unknown error"
		}
	}

	zap.L().Info("face detection API result",
		zap.String("req_id", result.ReqID),
		zap.Bool("success", result.Success),
		zap.String("status", result.Status))

	return result, nil
}
