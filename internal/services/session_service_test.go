// internal/services/session_service_test.go
package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kyc-verification-backend/internal/models"
	"kyc-verification-backend/internal/ocr"
	apperrors "kyc-verification-backend/pkg/errors"
)

const (
	testFrontImage  = "ZnJvbnQtaW1hZ2UtYnl0ZXM="
	testBackImage   = "YmFjay1pbWFnZS1ieXRlcw=="
	testSelfieImage = "c2VsZmllLWltYWdlLWJ5dGVz"
)

type fakeSessionRepo struct {
	mutex    sync.Mutex
	sessions map[string]*models.VerificationSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.VerificationSession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.VerificationSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session.CreatedAt = time.Now()
	session.UpdatedAt = time.Now()
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.VerificationSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewSessionNotFoundError()
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *models.VerificationSession) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.sessions[session.SessionID]; !ok {
		return apperrors.NewSessionNotFoundError()
	}
	session.UpdatedAt = time.Now()
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) ListByTenant(ctx context.Context, tenantID string, limit, skip int) ([]models.VerificationSession, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []models.VerificationSession
	for _, s := range r.sessions {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeIDTypeService struct {
	idType *models.IDType
}

func (s *fakeIDTypeService) Upsert(ctx context.Context, req *models.UpsertIDTypeRequest) (*models.IDType, error) {
	return s.idType, nil
}

func (s *fakeIDTypeService) List(ctx context.Context, enabledOnly bool) (*models.IDTypeListResponse, error) {
	return &models.IDTypeListResponse{}, nil
}

func (s *fakeIDTypeService) RequireEnabled(ctx context.Context, code string) (*models.IDType, error) {
	if s.idType == nil || s.idType.Code != code || !s.idType.Enabled {
		return nil, apperrors.NewDocumentTypeError(code)
	}
	return s.idType, nil
}

type fakeOCRAPI struct {
	fields map[string]any
}

func (f *fakeOCRAPI) ProcessExtraction(ctx context.Context, req *models.OCRExtractionRequest) (*models.OCRExtractionResult, error) {
	return &models.OCRExtractionResult{ReqID: req.ReqID, Success: true, Fields: f.fields}, nil
}

type fakeFaceDetectAPI struct {
	faceCount int
}

func (f *fakeFaceDetectAPI) ProcessFaceDetection(ctx context.Context, req *models.FaceDetectionRequest) (*models.FaceDetectionResult, error) {
	return &models.FaceDetectionResult{
		ReqID:   req.ReqID,
		Success: true,
		Data:    &models.FaceDetectionData{FaceCount: f.faceCount, Confidence: 0.99},
	}, nil
}

type fakeFaceVerifyAPI struct {
	verified bool
}

func (f *fakeFaceVerifyAPI) ProcessFaceVerification(ctx context.Context, req *models.FaceVerificationRequest) (*models.FaceVerificationResult, error) {
	return &models.FaceVerificationResult{
		ReqID:   req.ReqID,
		Success: true,
		Data:    &models.FaceVerificationData{Verified: f.verified, Confidence: 0.92},
	}, nil
}

type fakeLivenessAPI struct {
	live bool
}

func (f *fakeLivenessAPI) ProcessLiveness(ctx context.Context, req *models.LivenessRequest) (*models.LivenessResult, error) {
	return &models.LivenessResult{
		ReqID:   req.ReqID,
		Success: true,
		Data:    &models.LivenessData{Live: f.live, Score: 0.95},
	}, nil
}

type recordingWebhook struct {
	mutex  sync.Mutex
	events []*models.WebhookEvent
}

func (w *recordingWebhook) Dispatch(ctx context.Context, callbackURL string, event *models.WebhookEvent) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.events = append(w.events, event)
	return nil
}

type sessionTestEnv struct {
	service    SessionService
	repo       *fakeSessionRepo
	tokenStore *InMemoryCaptureTokenStore
	webhook    *recordingWebhook
}

func newSessionTestEnv(faceVerified, live bool) *sessionTestEnv {
	repo := newFakeSessionRepo()
	tokenStore := NewInMemoryCaptureTokenStore()
	webhook := &recordingWebhook{}

	idTypes := &fakeIDTypeService{idType: &models.IDType{
		Code:              "ethiopian_id",
		Name:              "Ethiopian National ID",
		Enabled:           true,
		RequiresBack:      false,
		UsesEthiopianDate: true,
	}}

	service := NewSessionService(
		repo,
		idTypes,
		&fakeOCRAPI{fields: map[string]any{
			"full_name":         "Abebe Bikila",
			"date_of_birth":     "2013-04-15 ዓ.ም",
			"expiry_date":       "2020-09-23",
			"sex":               "M",
			"gender":            "Male",
			"document_number":   "ID123456",
			"issuing_authority": "NIDP",
		}},
		&fakeFaceDetectAPI{faceCount: 1},
		&fakeFaceVerifyAPI{verified: faceVerified},
		&fakeLivenessAPI{live: live},
		webhook,
		tokenStore,
	)

	return &sessionTestEnv{service: service, repo: repo, tokenStore: tokenStore, webhook: webhook}
}

func (e *sessionTestEnv) createSession(t *testing.T) *models.CreateSessionResponse {
	t.Helper()
	resp, err := e.service.CreateSession(context.Background(), "tenant-1", "ak_live_a", &models.CreateSessionRequest{
		DocumentType: "ethiopian_id",
		CallbackURL:  "https://tenant.example.com/webhooks/kyc",
	})
	require.NoError(t, err)
	return resp
}

func (e *sessionTestEnv) runToOCRReview(t *testing.T) string {
	t.Helper()
	created := e.createSession(t)
	_, err := e.service.SubmitIDScan(context.Background(), created.SessionID, &models.IDScanSubmitRequest{
		FrontImageBase64: testFrontImage,
	})
	require.NoError(t, err)
	return created.SessionID
}

func (e *sessionTestEnv) confirmedRecord() ocr.FieldMapping {
	return ocr.FieldMapping{
		FullName:         "Abebe Bikila",
		DateOfBirth:      "2020-04-15",
		DateOfExpiry:     "2020-09-23",
		Gender:           "Male",
		IDNumber:         "ID123456",
		IssuingAuthority: "NIDP",
	}
}

func TestCreateSession(t *testing.T) {
	t.Run("issues session and capture token", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		resp := env.createSession(t)

		require.NotEmpty(t, resp.SessionID)
		require.NotEmpty(t, resp.CaptureToken)
		require.Equal(t, models.StepIDScan, resp.Step)
		require.Equal(t, int(CaptureTokenTTL.Seconds()), resp.ExpiresInSec)

		sessionID, err := env.tokenStore.Resolve(context.Background(), resp.CaptureToken)
		require.NoError(t, err)
		require.Equal(t, resp.SessionID, sessionID)
	})

	t.Run("rejects disabled document type", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		_, err := env.service.CreateSession(context.Background(), "tenant-1", "", &models.CreateSessionRequest{
			DocumentType: "passport",
		})
		require.Error(t, err)
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrDocumentType))
	})
}

func TestSubmitIDScan(t *testing.T) {
	t.Run("maps extracted fields into a draft", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		created := env.createSession(t)

		resp, err := env.service.SubmitIDScan(context.Background(), created.SessionID, &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
			BackImageBase64:  testBackImage,
		})
		require.NoError(t, err)

		require.Equal(t, models.StepOCRReview, resp.Step)
		require.NotNil(t, resp.Draft)
		require.Equal(t, "Abebe Bikila", resp.Draft.FullName)
		// Ethiopian birth date converted with the fixed year shift
		require.Equal(t, "2020-04-15", resp.Draft.DateOfBirth)
		require.Equal(t, "2013-04-15", resp.Draft.DateOfBirthEthiopian)
		require.Equal(t, "Male", resp.Draft.Gender)
		require.Equal(t, "M", resp.Draft.Sex)
		require.Equal(t, "April 15, 2020", resp.DisplayDates["dateOfBirth"])
	})

	t.Run("rejects out of order submission", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		sessionID := env.runToOCRReview(t)

		_, err := env.service.SubmitIDScan(context.Background(), sessionID, &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
		})
		require.Error(t, err)
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrInvalidStep))
		require.Equal(t, 409, apperrors.GetStatusCode(err))
	})

	t.Run("unknown session", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		_, err := env.service.SubmitIDScan(context.Background(), "missing", &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
		})
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrSessionNotFound))
	})
}

func TestSaveOCRData(t *testing.T) {
	t.Run("incomplete record stays at review", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		sessionID := env.runToOCRReview(t)

		resp, err := env.service.SaveOCRData(context.Background(), sessionID, ocr.FieldMapping{})
		require.NoError(t, err)
		require.False(t, resp.Valid)
		require.Contains(t, resp.Errors, "Full name is required")
		require.Contains(t, resp.Errors, "Date of birth is required")
		require.Equal(t, models.StepOCRReview, resp.Step)

		session, err := env.service.GetSession(context.Background(), sessionID)
		require.NoError(t, err)
		require.Equal(t, models.StepOCRReview, session.Step)
		require.Nil(t, session.OCRData)
	})

	t.Run("valid record advances to selfie", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		sessionID := env.runToOCRReview(t)

		record := env.confirmedRecord()
		record.FullName = "  Abebe Bikila  "

		resp, err := env.service.SaveOCRData(context.Background(), sessionID, record)
		require.NoError(t, err)
		require.True(t, resp.Valid)
		require.Equal(t, models.StepSelfie, resp.Step)

		session, err := env.service.GetSession(context.Background(), sessionID)
		require.NoError(t, err)
		require.NotNil(t, session.OCRData)
		// Stored record is the cleaned one
		require.Equal(t, "Abebe Bikila", session.OCRData.FullName)
	})
}

func TestFullCaptureFlow(t *testing.T) {
	t.Run("verified end to end", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		created := env.createSession(t)
		ctx := context.Background()

		_, err := env.service.SubmitIDScan(ctx, created.SessionID, &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
		})
		require.NoError(t, err)

		_, err = env.service.SaveOCRData(ctx, created.SessionID, env.confirmedRecord())
		require.NoError(t, err)

		selfieResp, err := env.service.SubmitSelfie(ctx, created.SessionID, &models.SelfieSubmitRequest{
			SelfieBase64: testSelfieImage,
		})
		require.NoError(t, err)
		require.Equal(t, models.StepLiveness, selfieResp.Step)
		require.True(t, selfieResp.FaceResult.Verified)

		livenessResp, err := env.service.SubmitLiveness(ctx, created.SessionID, &models.LivenessSubmitRequest{
			Frames: []string{testSelfieImage, testSelfieImage},
		})
		require.NoError(t, err)
		require.Equal(t, models.StepComplete, livenessResp.Step)
		require.Equal(t, models.SessionCompleted, livenessResp.Status)
		require.True(t, livenessResp.Result.Verified)
		require.Empty(t, livenessResp.Result.Reasons)

		// Terminal bookkeeping runs async
		require.Eventually(t, func() bool {
			_, err := env.tokenStore.Resolve(ctx, created.CaptureToken)
			return err != nil
		}, time.Second, 10*time.Millisecond, "capture token should be revoked")

		require.Eventually(t, func() bool {
			env.webhook.mutex.Lock()
			defer env.webhook.mutex.Unlock()
			return len(env.webhook.events) == 1
		}, time.Second, 10*time.Millisecond, "webhook should be dispatched")

		env.webhook.mutex.Lock()
		event := env.webhook.events[0]
		env.webhook.mutex.Unlock()
		require.Equal(t, models.EventSessionCompleted, event.Event)
		require.Equal(t, created.SessionID, event.SessionID)
	})

	t.Run("face mismatch fails the session", func(t *testing.T) {
		env := newSessionTestEnv(false, true)
		created := env.createSession(t)
		ctx := context.Background()

		_, err := env.service.SubmitIDScan(ctx, created.SessionID, &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
		})
		require.NoError(t, err)
		_, err = env.service.SaveOCRData(ctx, created.SessionID, env.confirmedRecord())
		require.NoError(t, err)
		_, err = env.service.SubmitSelfie(ctx, created.SessionID, &models.SelfieSubmitRequest{SelfieBase64: testSelfieImage})
		require.NoError(t, err)

		resp, err := env.service.SubmitLiveness(ctx, created.SessionID, &models.LivenessSubmitRequest{Frames: []string{testSelfieImage}})
		require.NoError(t, err)
		require.Equal(t, models.SessionFailed, resp.Status)
		require.False(t, resp.Result.Verified)
		require.Contains(t, resp.Result.Reasons, "selfie did not match the document portrait")

		require.Eventually(t, func() bool {
			env.webhook.mutex.Lock()
			defer env.webhook.mutex.Unlock()
			return len(env.webhook.events) == 1 && env.webhook.events[0].Event == models.EventSessionFailed
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("liveness failure fails the session", func(t *testing.T) {
		env := newSessionTestEnv(true, false)
		created := env.createSession(t)
		ctx := context.Background()

		_, err := env.service.SubmitIDScan(ctx, created.SessionID, &models.IDScanSubmitRequest{
			FrontImageBase64: testFrontImage,
		})
		require.NoError(t, err)
		_, err = env.service.SaveOCRData(ctx, created.SessionID, env.confirmedRecord())
		require.NoError(t, err)
		_, err = env.service.SubmitSelfie(ctx, created.SessionID, &models.SelfieSubmitRequest{SelfieBase64: testSelfieImage})
		require.NoError(t, err)

		resp, err := env.service.SubmitLiveness(ctx, created.SessionID, &models.LivenessSubmitRequest{Frames: []string{testSelfieImage}})
		require.NoError(t, err)
		require.Equal(t, models.SessionFailed, resp.Status)
		require.Contains(t, resp.Result.Reasons, "liveness check failed")
	})

	t.Run("completed session rejects further submissions", func(t *testing.T) {
		env := newSessionTestEnv(true, true)
		created := env.createSession(t)
		ctx := context.Background()

		_, err := env.service.SubmitIDScan(ctx, created.SessionID, &models.IDScanSubmitRequest{FrontImageBase64: testFrontImage})
		require.NoError(t, err)
		_, err = env.service.SaveOCRData(ctx, created.SessionID, env.confirmedRecord())
		require.NoError(t, err)
		_, err = env.service.SubmitSelfie(ctx, created.SessionID, &models.SelfieSubmitRequest{SelfieBase64: testSelfieImage})
		require.NoError(t, err)
		_, err = env.service.SubmitLiveness(ctx, created.SessionID, &models.LivenessSubmitRequest{Frames: []string{testSelfieImage}})
		require.NoError(t, err)

		_, err = env.service.SubmitLiveness(ctx, created.SessionID, &models.LivenessSubmitRequest{Frames: []string{testSelfieImage}})
		require.Error(t, err)
		require.True(t, apperrors.IsErrorType(err, apperrors.ErrInvalidStep))
	})
}

func TestSubmitSelfieFaceCount(t *testing.T) {
	env := newSessionTestEnv(true, true)
	// Replace the detector with one that sees two faces
	svc := env.service.(*sessionService)
	svc.faceDetectAPI = &fakeFaceDetectAPI{faceCount: 2}

	created := env.createSession(t)
	ctx := context.Background()
	_, err := env.service.SubmitIDScan(ctx, created.SessionID, &models.IDScanSubmitRequest{FrontImageBase64: testFrontImage})
	require.NoError(t, err)
	_, err = env.service.SaveOCRData(ctx, created.SessionID, env.confirmedRecord())
	require.NoError(t, err)

	_, err = env.service.SubmitSelfie(ctx, created.SessionID, &models.SelfieSubmitRequest{SelfieBase64: testSelfieImage})
	require.Error(t, err)
	require.Equal(t, 400, apperrors.GetStatusCode(err))

	// Session stays at selfie for a retake
	session, err := env.service.GetSession(ctx, created.SessionID)
	require.NoError(t, err)
	require.Equal(t, models.StepSelfie, session.Step)
}
