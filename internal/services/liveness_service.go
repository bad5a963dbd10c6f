// internal/services/liveness_service.go
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

type LivenessAPIService interface {
	ProcessLiveness(ctx context.Context, req *models.LivenessRequest) (*models.LivenessResult, error)
}

type livenessAPIService struct {
	httpClient *http.Client
	apiURL     string
}

func NewLivenessAPIService(apiURL string) LivenessAPIService {
	return &livenessAPIService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL: apiURL,
	}
}

func (s *livenessAPIService) ProcessLiveness(ctx context.Context, req *models.LivenessRequest) (*models.LivenessResult, error) {
	payload := map[string]interface{}{
		"req_id": req.ReqID,
		"frames": req.Frames,
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

	zap.L().Debug("calling liveness API",
		zap.String("url", s.apiURL),
		zap.String("req_id", req.ReqID),
		zap.Int("frame_count", len(req.Frames)))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call liveness API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("liveness API returned non-OK status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		ReqID        string  `json:"req_id"`
		Success      bool    `json:"success"`
		ErrorMessage *string `json:"error_message"`
		Data         *struct {
			Live  bool    `json:"live"`
			Score float64 `json:"score"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	result := &models.LivenessResult{
		ReqID:   apiResponse.ReqID,
		Success: apiResponse.Success,
	}

	if apiResponse.Success {
		result.Status = "completed"
		result.Message = "Liveness check completed successfully"
		if apiResponse.Data != nil {
			result.Data = &models.LivenessData{
				Live:  apiResponse.Data.Live,
				Score: apiResponse.Data.Score,
			}
		}
	} else {
		result.Status = "failed"
		if apiResponse.ErrorMessage != nil {
			result.Message = *apiResponse.ErrorMessage
		} else {
			result.Message = "Liveness check failed with unknown error"
		}
	}

	zap.L().Info("liveness API result",
		zap.String("req_id", result.ReqID),
		zap.Bool("success", result.Success),
		zap.String("status", result.Status))

	return result, nil
}
