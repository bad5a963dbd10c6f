// internal/models/verification.go
package models

import (
	"errors"
	"strings"
)

// OCR Extraction request structure - matches the API expectations
type OCRExtractionRequest struct {
	ReqID          string `json:"req_id" validate:"required"`
	DocBase64Front string `json:"doc_base64_front" validate:"required"`
	DocBase64Back  string `json:"doc_base64_back,omitempty"`
	DocType        string `json:"doc_type" validate:"required"`
}

// OCR Extraction result structure (returned by external API). Fields is the
// loosely-typed bag of engine output the mapper normalizes.
type OCRExtractionResult struct {
	ReqID   string         `json:"req_id"`
	Success bool           `json:"success"`
	Status  string         `json:"status"`
	Fields  map[string]any `json:"fields,omitempty"`
	Message string         `json:"message,omitempty"`
}

func (r *OCRExtractionRequest) Validate() error {
	if strings.TrimSpace(r.ReqID) == "" {
		return errors.New("req_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocBase64Front) == "" {
		return errors.New("doc_base64_front is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocType) == "" {
		return errors.New("doc_type is required and cannot be empty")
	}
	// Basic validation for base64 strings
	if len(r.DocBase64Front) < 10 {
		return errors.New("doc_base64_front appears to be too short to be a valid document")
	}
	return nil
}

// Face Detection request structure
type FaceDetectionRequest struct {
	ReqID     string `json:"req_id" validate:"required"`
	DocBase64 string `json:"doc_base64" validate:"required"`
}

// Face Detection data structure (nested in API response)
type FaceDetectionData struct {
	FaceCount  int     `json:"face_count"`
	Confidence float64 `json:"confidence"`
}

// Face Detection result structure (returned by external API)
type FaceDetectionResult struct {
	ReqID   string             `json:"req_id"`
	Success bool               `json:"success"`
	Status  string             `json:"status"`
	Data    *FaceDetectionData `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
}

func (r *FaceDetectionRequest) Validate() error {
	if strings.TrimSpace(r.ReqID) == "" {
		return errors.New("req_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocBase64) == "" {
		return errors.New("doc_base64 is required and cannot be empty")
	}
	if len(r.DocBase64) < 10 {
		return errors.New("doc_base64 appears to be too short to be a valid image")
	}
	return nil
}

// Face Verification request structure
type FaceVerificationRequest struct {
	ReqID       string `json:"req_id" validate:"required"`
	DocBase64_1 string `json:"doc_base64_1" validate:"required"`
	DocBase64_2 string `json:"doc_base64_2" validate:"required"`
	DocType     string `json:"doc_type" validate:"required"`
}

// Face Verification data structure (nested in API response)
type FaceVerificationData struct {
	Confidence float64 `json:"confidence"`
	Verified   bool    `json:"verified"`
}

// Face Verification result structure (returned by external API)
type FaceVerificationResult struct {
	ReqID   string                `json:"req_id"`
	Success bool                  `json:"success"`
	Status  string                `json:"status"`
	Data    *FaceVerificationData `json:"data,omitempty"`
	Message string                `json:"message,omitempty"`
}

func (r *FaceVerificationRequest) Validate() error {
	if strings.TrimSpace(r.ReqID) == "" {
		return errors.New("req_id is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocBase64_1) == "" {
		return errors.New("doc_base64_1 is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocBase64_2) == "" {
		return errors.New("doc_base64_2 is required and cannot be empty")
	}
	if strings.TrimSpace(r.DocType) == "" {
		return errors.New("doc_type is required and cannot be empty")
	}
	if strings.ToLower(strings.TrimSpace(r.DocType)) != "face" {
		return errors.New("doc_type must be 'face'")
	}
	if len(r.DocBase64_1) < 10 {
		return errors.New("doc_base64_1 appears to be too short to be a valid document")
	}
	if len(r.DocBase64_2) < 10 {
		return errors.New("doc_base64_2 appears to be too short to be a valid document")
	}
	return nil
}

// Liveness request structure. Frames carry a short burst of selfie captures.
type LivenessRequest struct {
	ReqID  string   `json:"req_id" validate:"required"`
	Frames []string `json:"frames" validate:"required"`
}

// Liveness data structure (nested in API response)
type LivenessData struct {
	Live  bool    `json:"live"`
	Score float64 `json:"score"`
}

// Liveness result structure (returned by external API)
type LivenessResult struct {
	ReqID   string        `json:"req_id"`
	Success bool          `json:"success"`
	Status  string        `json:"status"`
	Data    *LivenessData `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
}

func (r *LivenessRequest) Validate() error {
	if strings.TrimSpace(r.ReqID) == "" {
		return errors.New("req_id is required and cannot be empty")
	}
	if len(r.Frames) == 0 {
		return errors.New("frames is required and cannot be empty")
	}
	for _, frame := range r.Frames {
		if len(strings.TrimSpace(frame)) < 10 {
			return errors.New("each frame must be a non-trivial base64 image")
		}
	}
	return nil
}
