// internal/models/session.go
package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"kyc-verification-backend/internal/ocr"
)

// Capture-flow steps, in order. A session only ever moves forward.
const (
	StepIDScan    = "id_scan"
	StepOCRReview = "ocr_review"
	StepSelfie    = "selfie"
	StepLiveness  = "liveness"
	StepComplete  = "complete"
)

// Session status values
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// stepOrder drives the forward-only state machine.
var stepOrder = map[string]string{
	StepIDScan:    StepOCRReview,
	StepOCRReview: StepSelfie,
	StepSelfie:    StepLiveness,
	StepLiveness:  StepComplete,
}

// VerificationSession is one guided capture run for one end user.
type VerificationSession struct {
	ID               primitive.ObjectID        `bson:"_id,omitempty" json:"-"`
	SessionID        string                    `bson:"sessionId" json:"sessionId"`
	TenantID         string                    `bson:"tenantId" json:"tenantId"`
	KeyPrefix        string                    `bson:"keyPrefix,omitempty" json:"-"`
	DocumentType     string                    `bson:"documentType" json:"documentType"`
	CallbackURL      string                    `bson:"callbackUrl,omitempty" json:"-"`
	CaptureToken     string                    `bson:"captureToken,omitempty" json:"-"`
	Step             string                    `bson:"step" json:"step"`
	Status           string                    `bson:"status" json:"status"`
	OCRDraft         *ocr.FieldMapping         `bson:"ocrDraft,omitempty" json:"ocrDraft,omitempty"`
	OCRData          *ocr.FieldMapping         `bson:"ocrData,omitempty" json:"ocrData,omitempty"`
	DocFrontBase64   string                    `bson:"docFrontBase64,omitempty" json:"-"`
	FaceVerification *FaceVerificationData     `bson:"faceVerification,omitempty" json:"faceVerification,omitempty"`
	Liveness         *LivenessData             `bson:"liveness,omitempty" json:"liveness,omitempty"`
	Result           *VerificationResult       `bson:"result,omitempty" json:"result,omitempty"`
	CreatedAt        time.Time                 `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time                 `bson:"updatedAt" json:"updatedAt"`
	CompletedAt      *time.Time                `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// VerificationResult is the final decision handed to the caller and the
// webhook consumer.
type VerificationResult struct {
	Verified bool     `bson:"verified" json:"verified"`
	Reasons  []string `bson:"reasons,omitempty" json:"reasons,omitempty"`
}

// NextStep returns the step that follows the session's current one, or ""
// when the session is already at the end.
func (s *VerificationSession) NextStep() string {
	return stepOrder[s.Step]
}

// AtStep reports whether the session is waiting for the given step's
// submission.
func (s *VerificationSession) AtStep(step string) bool {
	return s.Status == SessionActive && s.Step == step
}

func (s *VerificationSession) IsTerminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionFailed
}

type CreateSessionRequest struct {
	DocumentType string `json:"documentType" validate:"required"`
	CallbackURL  string `json:"callbackUrl,omitempty"`
}

func (r *CreateSessionRequest) Validate() error {
	if strings.TrimSpace(r.DocumentType) == "" {
		return errors.New("documentType is required")
	}
	if r.CallbackURL != "" && !strings.HasPrefix(r.CallbackURL, "http") {
		return errors.New("callbackUrl must be an absolute http(s) URL")
	}
	return nil
}

type CreateSessionResponse struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId"`
	CaptureToken string `json:"captureToken"`
	Step         string `json:"step"`
	ExpiresInSec int    `json:"expiresInSec"`
}

type IDScanSubmitRequest struct {
	FrontImageBase64 string `json:"frontImageBase64" validate:"required"`
	BackImageBase64  string `json:"backImageBase64,omitempty"`
}

func (r *IDScanSubmitRequest) Validate() error {
	if strings.TrimSpace(r.FrontImageBase64) == "" {
		return errors.New("frontImageBase64 is required")
	}
	if len(r.FrontImageBase64) < 10 {
		return errors.New("frontImageBase64 appears to be too short to be a valid image")
	}
	return nil
}

// IDScanResponse returns the mapped draft record for the review screen,
// with both machine (input) and human (display) date renderings.
type IDScanResponse struct {
	Message     string            `json:"message"`
	SessionID   string            `json:"sessionId"`
	Step        string            `json:"step"`
	Draft       *ocr.FieldMapping `json:"draft"`
	DisplayDates map[string]string `json:"displayDates,omitempty"`
}

// SaveOCRDataRequest carries the user-corrected canonical record.
type SaveOCRDataRequest struct {
	Data ocr.FieldMapping `json:"data"`
}

// SaveOCRDataResponse reports either the advance to the selfie step or the
// validation messages the review screen has to surface. Valid=false is a
// normal outcome, not an error.
type SaveOCRDataResponse struct {
	Message   string   `json:"message"`
	SessionID string   `json:"sessionId"`
	Step      string   `json:"step"`
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
}

type SelfieSubmitRequest struct {
	SelfieBase64 string `json:"selfieBase64" validate:"required"`
}

func (r *SelfieSubmitRequest) Validate() error {
	if strings.TrimSpace(r.SelfieBase64) == "" {
		return errors.New("selfieBase64 is required")
	}
	if len(r.SelfieBase64) < 10 {
		return errors.New("selfieBase64 appears to be too short to be a valid image")
	}
	return nil
}

type SelfieSubmitResponse struct {
	Message    string                `json:"message"`
	SessionID  string                `json:"sessionId"`
	Step       string                `json:"step"`
	FaceResult *FaceVerificationData `json:"faceResult,omitempty"`
}

type LivenessSubmitRequest struct {
	Frames []string `json:"frames" validate:"required"`
}

func (r *LivenessSubmitRequest) Validate() error {
	if len(r.Frames) == 0 {
		return errors.New("frames is required")
	}
	return nil
}

type LivenessSubmitResponse struct {
	Message   string              `json:"message"`
	SessionID string              `json:"sessionId"`
	Step      string              `json:"step"`
	Status    string              `json:"status"`
	Result    *VerificationResult `json:"result,omitempty"`
}

type SessionStateResponse struct {
	Message string               `json:"message"`
	Session *VerificationSession `json:"session"`
}
