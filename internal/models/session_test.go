// internal/models/session_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStepMachine(t *testing.T) {
	t.Run("steps advance in order", func(t *testing.T) {
		session := &VerificationSession{Step: StepIDScan, Status: SessionActive}

		require.Equal(t, StepOCRReview, session.NextStep())
		session.Step = StepOCRReview
		require.Equal(t, StepSelfie, session.NextStep())
		session.Step = StepSelfie
		require.Equal(t, StepLiveness, session.NextStep())
		session.Step = StepLiveness
		require.Equal(t, StepComplete, session.NextStep())
		session.Step = StepComplete
		require.Empty(t, session.NextStep())
	})

	t.Run("AtStep requires an active session", func(t *testing.T) {
		session := &VerificationSession{Step: StepSelfie, Status: SessionActive}
		require.True(t, session.AtStep(StepSelfie))
		require.False(t, session.AtStep(StepIDScan))

		session.Status = SessionCompleted
		require.False(t, session.AtStep(StepSelfie))
	})

	t.Run("terminal statuses", func(t *testing.T) {
		require.False(t, (&VerificationSession{Status: SessionActive}).IsTerminal())
		require.True(t, (&VerificationSession{Status: SessionCompleted}).IsTerminal())
		require.True(t, (&VerificationSession{Status: SessionFailed}).IsTerminal())
	})
}

func TestCreateSessionRequestValidate(t *testing.T) {
	t.Run("requires document type", func(t *testing.T) {
		req := &CreateSessionRequest{}
		require.Error(t, req.Validate())
	})

	t.Run("callback must be absolute", func(t *testing.T) {
		req := &CreateSessionRequest{DocumentType: "ethiopian_id", CallbackURL: "ftp://x"}
		require.Error(t, req.Validate())

		req.CallbackURL = "https://tenant.example.com/hook"
		require.NoError(t, req.Validate())
	})
}

func TestSubmitRequestValidation(t *testing.T) {
	t.Run("id scan requires a plausible front image", func(t *testing.T) {
		require.Error(t, (&IDScanSubmitRequest{}).Validate())
		require.Error(t, (&IDScanSubmitRequest{FrontImageBase64: "abc"}).Validate())
		require.NoError(t, (&IDScanSubmitRequest{FrontImageBase64: "ZnJvbnQtaW1hZ2U="}).Validate())
	})

	t.Run("selfie requires an image", func(t *testing.T) {
		require.Error(t, (&SelfieSubmitRequest{}).Validate())
		require.NoError(t, (&SelfieSubmitRequest{SelfieBase64: "c2VsZmllLWltZw=="}).Validate())
	})

	t.Run("liveness requires frames", func(t *testing.T) {
		require.Error(t, (&LivenessSubmitRequest{}).Validate())
		require.NoError(t, (&LivenessSubmitRequest{Frames: []string{"ZnJhbWU="}}).Validate())
	})
}
