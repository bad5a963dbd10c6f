// internal/services/session_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/ocr"
	"kyc-verification-backend/internal/repository"
	apperrors "kyc-verification-backend/pkg/errors"
)

// SessionService drives the guided capture flow:
// id_scan -> ocr_review -> selfie -> liveness -> complete.
// Each submit method checks the session is waiting at its step, calls the
// external verification API, and advances on success.
type SessionService interface {
	CreateSession(ctx context.Context, tenantID, keyPrefix string, req *models.CreateSessionRequest) (*models.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*models.VerificationSession, error)
	SubmitIDScan(ctx context.Context, sessionID string, req *models.IDScanSubmitRequest) (*models.IDScanResponse, error)
	SaveOCRData(ctx context.Context, sessionID string, record ocr.FieldMapping) (*models.SaveOCRDataResponse, error)
	SubmitSelfie(ctx context.Context, sessionID string, req *models.SelfieSubmitRequest) (*models.SelfieSubmitResponse, error)
	SubmitLiveness(ctx context.Context, sessionID string, req *models.LivenessSubmitRequest) (*models.LivenessSubmitResponse, error)
}

type sessionService struct {
	sessionRepo    repository.SessionRepository
	idTypeService  IDTypeService
	ocrAPI         OCRExtractionAPIService
	faceDetectAPI  FaceDetectionAPIService
	faceVerifyAPI  FaceVerificationAPIService
	livenessAPI    LivenessAPIService
	webhookService WebhookService
	tokenStore     CaptureTokenStore
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	idTypeService IDTypeService,
	ocrAPI OCRExtractionAPIService,
	faceDetectAPI FaceDetectionAPIService,
	faceVerifyAPI FaceVerificationAPIService,
	livenessAPI LivenessAPIService,
	webhookService WebhookService,
	tokenStore CaptureTokenStore,
) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		idTypeService:  idTypeService,
		ocrAPI:         ocrAPI,
		faceDetectAPI:  faceDetectAPI,
		faceVerifyAPI:  faceVerifyAPI,
		livenessAPI:    livenessAPI,
		webhookService: webhookService,
		tokenStore:     tokenStore,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, tenantID, keyPrefix string, req *models.CreateSessionRequest) (*models.CreateSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	if _, err := s.idTypeService.RequireEnabled(ctx, req.DocumentType); err != nil {
		return nil, err
	}

	session := &models.VerificationSession{
		SessionID:    uuid.New().String(),
		TenantID:     tenantID,
		KeyPrefix:    keyPrefix,
		DocumentType: req.DocumentType,
		CallbackURL:  req.CallbackURL,
		CaptureToken: uuid.New().String(),
		Step:         models.StepIDScan,
		Status:       models.SessionActive,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := s.tokenStore.Store(ctx, session.CaptureToken, session.SessionID); err != nil {
		return nil, err
	}

	zap.L().Info("verification session created",
		zap.String("session_id", session.SessionID),
		zap.String("tenant_id", tenantID),
		zap.String("document_type", req.DocumentType))

	return &models.CreateSessionResponse{
		Message:      "Verification session created successfully",
		SessionID:    session.SessionID,
		CaptureToken: session.CaptureToken,
		Step:         session.Step,
		ExpiresInSec: int(CaptureTokenTTL.Seconds()),
	}, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*models.VerificationSession, error) {
	return s.sessionRepo.GetBySessionID(ctx, sessionID)
}

func (s *sessionService) SubmitIDScan(ctx context.Context, sessionID string, req *models.IDScanSubmitRequest) (*models.IDScanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AtStep(models.StepIDScan) {
		return nil, apperrors.NewInvalidStepError(session.Step, models.StepIDScan)
	}

	idType, err := s.idTypeService.RequireEnabled(ctx, session.DocumentType)
	if err != nil {
		return nil, err
	}
	if idType.RequiresBack && req.BackImageBase64 == "" {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400,
			"backImageBase64 is required for this document type")
	}

	extractionReq := &models.OCRExtractionRequest{
		ReqID:          uuid.New().String(),
		DocBase64Front: req.FrontImageBase64,
		DocBase64Back:  req.BackImageBase64,
		DocType:        session.DocumentType,
	}

	result, err := s.ocrAPI.ProcessExtraction(ctx, extractionReq)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			"OCR extraction failed", err.Error())
	}
	if !result.Success {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			result.Message)
	}

	// Any previous draft of this session acts as fallback, so a rescan
	// never loses fields the engine read correctly the first time.
	draft := ocr.MapExtractedFields(result.Fields, session.OCRDraft)

	session.OCRDraft = &draft
	session.DocFrontBase64 = req.FrontImageBase64
	session.Step = models.StepOCRReview

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return &models.IDScanResponse{
		Message:   "ID scan processed, review the extracted data",
		SessionID: session.SessionID,
		Step:      session.Step,
		Draft:     &draft,
		DisplayDates: map[string]string{
			"dateOfBirth":  ocr.FormatForDisplay(draft.DateOfBirth),
			"dateOfIssue":  ocr.FormatForDisplay(draft.DateOfIssue),
			"dateOfExpiry": ocr.FormatForDisplay(draft.DateOfExpiry),
		},
	}, nil
}

func (s *sessionService) SaveOCRData(ctx context.Context, sessionID string, record ocr.FieldMapping) (*models.SaveOCRDataResponse, error) {
	session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AtStep(models.StepOCRReview) {
		return nil, apperrors.NewInvalidStepError(session.Step, models.StepOCRReview)
	}

	validation := ocr.Validate(record)
	if !validation.IsValid {
		// Not an error: the review UI shows the messages and lets the user
		// fix the record. The session stays at ocr_review.
		return &models.SaveOCRDataResponse{
			Message:   "OCR data is incomplete",
			SessionID: session.SessionID,
			Step:      session.Step,
			Valid:     false,
			Errors:    validation.Errors,
		}, nil
	}

	cleaned := ocr.Clean(record)
	session.OCRData = &cleaned
	session.Step = models.StepSelfie

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return &models.SaveOCRDataResponse{
		Message:   "OCR data saved successfully",
		SessionID: session.SessionID,
		Step:      session.Step,
		Valid:     true,
	}, nil
}

func (s *sessionService) SubmitSelfie(ctx context.Context, sessionID string, req *models.SelfieSubmitRequest) (*models.SelfieSubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AtStep(models.StepSelfie) {
		return nil, apperrors.NewInvalidStepError(session.Step, models.StepSelfie)
	}

	// Pre-check: the selfie must contain exactly one face before it is
	// worth sending to the verification engine.
	detection, err := s.faceDetectAPI.ProcessFaceDetection(ctx, &models.FaceDetectionRequest{
		ReqID:     uuid.New().String(),
		DocBase64: req.SelfieBase64,
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			"face detection failed", err.Error())
	}
	if !detection.Success || detection.Data == nil || detection.Data.FaceCount != 1 {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400,
			"selfie must contain exactly one clearly visible face")
	}

	verification, err := s.faceVerifyAPI.ProcessFaceVerification(ctx, &models.FaceVerificationRequest{
		ReqID:       uuid.New().String(),
		DocBase64_1: session.DocFrontBase64,
		DocBase64_2: req.SelfieBase64,
		DocType:     "face",
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			"face verification failed", err.Error())
	}
	if !verification.Success {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			verification.Message)
	}

	// A non-match is recorded, not rejected: the final decision is made at
	// the liveness step so the flow always runs to completion.
	session.FaceVerification = verification.Data
	session.Step = models.StepLiveness

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return &models.SelfieSubmitResponse{
		Message:    "Selfie processed successfully",
		SessionID:  session.SessionID,
		Step:       session.Step,
		FaceResult: verification.Data,
	}, nil
}

func (s *sessionService) SubmitLiveness(ctx context.Context, sessionID string, req *models.LivenessSubmitRequest) (*models.LivenessSubmitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrValidation, 400, "validation failed", err.Error())
	}

	session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AtStep(models.StepLiveness) {
		return nil, apperrors.NewInvalidStepError(session.Step, models.StepLiveness)
	}

	liveness, err := s.livenessAPI.ProcessLiveness(ctx, &models.LivenessRequest{
		ReqID:  uuid.New().String(),
		Frames: req.Frames,
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			"liveness check failed", err.Error())
	}
	if !liveness.Success {
		return nil, apperrors.NewAppError(apperrors.ErrUpstreamFailure, 502,
			liveness.Message)
	}

	session.Liveness = liveness.Data
	session.Result = s.decide(session)
	session.Step = models.StepComplete
	if session.Result.Verified {
		session.Status = models.SessionCompleted
	} else {
		session.Status = models.SessionFailed
	}
	now := time.Now()
	session.CompletedAt = &now

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.finishSession(session)

	return &models.LivenessSubmitResponse{
		Message:   "Verification flow completed",
		SessionID: session.SessionID,
		Step:      session.Step,
		Status:    session.Status,
		Result:    session.Result,
	}, nil
}

// decide folds the three checks into the final verdict.
func (s *sessionService) decide(session *models.VerificationSession) *models.VerificationResult {
	result := &models.VerificationResult{Verified: true}

	if session.OCRData == nil {
		result.Verified = false
		result.Reasons = append(result.Reasons, "document data was not confirmed")
	} else if status := session.OCRData.DocumentStatus; status != nil {
		if !status.IsValid || !status.IsDocumentAccepted {
			result.Verified = false
			result.Reasons = append(result.Reasons, "document was not accepted")
		}
		if !status.IsOlderThan18 {
			result.Verified = false
			result.Reasons = append(result.Reasons, "document holder is under 18")
		}
	}

	if session.FaceVerification == nil || !session.FaceVerification.Verified {
		result.Verified = false
		result.Reasons = append(result.Reasons, "selfie did not match the document portrait")
	}

	if session.Liveness == nil || !session.Liveness.Live {
		result.Verified = false
		result.Reasons = append(result.Reasons, "liveness check failed")
	}

	return result
}

// finishSession runs the terminal bookkeeping off the request path: the
// capture token is revoked and the callback webhook dispatched.
func (s *sessionService) finishSession(session *models.VerificationSession) {
	event := &models.WebhookEvent{
		SessionID:    session.SessionID,
		TenantID:     session.TenantID,
		DocumentType: session.DocumentType,
		Result:       session.Result,
		OccurredAt:   time.Now(),
	}
	if session.Status == models.SessionCompleted {
		event.Event = models.EventSessionCompleted
	} else {
		event.Event = models.EventSessionFailed
	}

	callbackURL := session.CallbackURL
	captureToken := session.CaptureToken

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.tokenStore.Remove(ctx, captureToken); err != nil {
			zap.L().Warn("failed to remove capture token",
				zap.String("session_id", event.SessionID), zap.Error(err))
		}

		if callbackURL == "" {
			return
		}
		if err := s.webhookService.Dispatch(ctx, callbackURL, event); err != nil {
			zap.L().Error("webhook delivery failed",
				zap.String("session_id", event.SessionID),
				zap.String("event", event.Event),
				zap.Error(err))
		}
	}()
}
