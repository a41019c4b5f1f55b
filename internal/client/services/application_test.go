package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/common"
	"github.com/certapply/certapply/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func validFields() models.Fields {
	return models.Fields{
		FullName:        "Jamie Cole",
		PhoneNumber:     "555-0101",
		Address:         "12 Oak St",
		ExperienceYears: 4,
		Program:         "FITNESS",
	}
}

func pdfUpload(size int64) models.Upload {
	return models.Upload{FileName: "resume.pdf", MimeType: "application/pdf", SizeBytes: size, Content: []byte("pdf")}
}

func TestSubmit_FromNotSubmitted(t *testing.T) {
	fc := &fakeClient{
		StatusRet: models.StatusNotSubmitted,
		SubmitRet: &models.Application{ID: 10, OwnerID: 1, Status: models.StatusPending, Fields: validFields()},
	}
	svc := NewApplicationService(fc, testLogger())

	app, err := svc.Submit(context.Background(), 1, validFields(), []models.Upload{pdfUpload(2 * 1024 * 1024)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, 1, fc.SubmitCalls)
	assert.Equal(t, 1, fc.UploadCalls)
	assert.Equal(t, int64(10), fc.LastUploadAppID)
	require.Len(t, fc.LastUploads, 1)
}

func TestSubmit_AlreadySubmitted(t *testing.T) {
	fc := &fakeClient{StatusRet: models.StatusPending}
	svc := NewApplicationService(fc, testLogger())

	_, err := svc.Submit(context.Background(), 1, validFields(), nil)
	require.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.Zero(t, fc.SubmitCalls)
}

func TestSubmit_ValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		fields  models.Fields
		uploads []models.Upload
	}{
		{name: "missing name", fields: models.Fields{Program: "FITNESS", PhoneNumber: "1", Address: "x"}},
		{name: "negative experience", fields: func() models.Fields {
			f := validFields()
			f.ExperienceYears = -1
			return f
		}()},
		{name: "oversized document", fields: validFields(), uploads: []models.Upload{pdfUpload(6 * 1024 * 1024)}},
		{name: "disallowed document type", fields: validFields(), uploads: []models.Upload{
			{FileName: "tool.exe", MimeType: "application/octet-stream", SizeBytes: 4 * 1024 * 1024},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{StatusRet: models.StatusNotSubmitted}
			svc := NewApplicationService(fc, testLogger())

			_, err := svc.Submit(context.Background(), 1, tt.fields, tt.uploads)
			require.ErrorIs(t, err, common.ErrValidation)
			// no remote interaction of any kind
			assert.Zero(t, fc.StatusCalls)
			assert.Zero(t, fc.SubmitCalls)
			assert.Zero(t, fc.UploadCalls)
		})
	}
}

func TestSubmit_UploadFailureLeavesApplicationPending(t *testing.T) {
	fc := &fakeClient{
		StatusRet: models.StatusNotSubmitted,
		SubmitRet: &models.Application{ID: 10, Status: models.StatusPending},
		UploadErr: common.ErrUnavailable,
	}
	svc := NewApplicationService(fc, testLogger())

	app, err := svc.Submit(context.Background(), 1, validFields(), []models.Upload{pdfUpload(1024)})
	require.ErrorIs(t, err, common.ErrUnavailable)
	// the submission itself is not rolled back
	require.NotNil(t, app)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Empty(t, app.Documents)
}

func TestDecide_Approve(t *testing.T) {
	fc := &fakeClient{ByIDRet: &models.Application{ID: 3, Status: models.StatusPending}}
	svc := NewApplicationService(fc, testLogger())

	app, err := svc.Decide(context.Background(), 3, models.StatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, app.Status)
	assert.Equal(t, models.StatusApproved, fc.LastOutcome)
}

func TestDecide_RejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		fc := &fakeClient{ByIDRet: &models.Application{ID: 3, Status: models.StatusPending}}
		svc := NewApplicationService(fc, testLogger())

		_, err := svc.Decide(context.Background(), 3, models.StatusRejected, reason)
		require.ErrorIs(t, err, common.ErrValidation)
		assert.Zero(t, fc.DecisionCalls, "no remote call for reason %q", reason)
	}
}

func TestDecide_RejectWithReason(t *testing.T) {
	fc := &fakeClient{ByIDRet: &models.Application{ID: 3, Status: models.StatusPending}}
	svc := NewApplicationService(fc, testLogger())

	app, err := svc.Decide(context.Background(), 3, models.StatusRejected, "insufficient experience")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, app.Status)
	assert.Equal(t, "insufficient experience", app.RejectionReason)
	assert.Equal(t, "insufficient experience", fc.LastReason)
}

func TestDecide_NotIdempotent(t *testing.T) {
	fc := &fakeClient{ByIDRet: &models.Application{ID: 3, Status: models.StatusPending}}
	svc := NewApplicationService(fc, testLogger())

	_, err := svc.Decide(context.Background(), 3, models.StatusApproved, "")
	require.NoError(t, err)

	// the first decision landed; the server now reports a terminal state
	fc.ByIDRet.Status = models.StatusApproved

	for _, outcome := range []models.Status{models.StatusApproved, models.StatusRejected} {
		_, err = svc.Decide(context.Background(), 3, outcome, "some reason")
		require.ErrorIs(t, err, common.ErrInvalidTransition)
	}
	assert.Equal(t, 1, fc.DecisionCalls)
}

func TestDecide_InvalidOutcome(t *testing.T) {
	svc := NewApplicationService(&fakeClient{}, testLogger())

	_, err := svc.Decide(context.Background(), 3, models.StatusPending, "")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestEditFields_MergesPatch(t *testing.T) {
	fc := &fakeClient{
		ByIDRet:      &models.Application{ID: 5, Status: models.StatusPending, Fields: validFields()},
		UpdateAppRet: &models.Application{ID: 5, Status: models.StatusPending},
	}
	svc := NewApplicationService(fc, testLogger())

	addr := "99 Elm Rd"
	_, err := svc.EditFields(context.Background(), 5, FieldsPatch{Address: &addr})
	require.NoError(t, err)
}

func TestEditFields_ForbiddenOnceTerminal(t *testing.T) {
	for _, status := range []models.Status{models.StatusApproved, models.StatusRejected} {
		fc := &fakeClient{ByIDRet: &models.Application{ID: 5, Status: status}}
		svc := NewApplicationService(fc, testLogger())

		name := "New Name"
		_, err := svc.EditFields(context.Background(), 5, FieldsPatch{FullName: &name})
		require.ErrorIs(t, err, common.ErrForbidden, "status %s", status)
	}
}

func TestCurrentStatus_PassesThroughSentinel(t *testing.T) {
	fc := &fakeClient{StatusRet: models.StatusNotSubmitted}
	svc := NewApplicationService(fc, testLogger())

	status, err := svc.CurrentStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNotSubmitted, status)
}

// Full scenario: submit with a document, reject without then with a reason,
// then try to edit the rejected application.
func TestLifecycle_Scenario(t *testing.T) {
	ctx := context.Background()
	fields := validFields()

	fc := &fakeClient{
		StatusRet: models.StatusNotSubmitted,
		SubmitRet: &models.Application{ID: 42, OwnerID: 1, Status: models.StatusPending, Fields: fields,
			Documents: []models.Document{{ID: 1, FileName: "resume.pdf", MimeType: "application/pdf", SizeBytes: 2 * 1024 * 1024}}},
	}
	svc := NewApplicationService(fc, testLogger())

	app, err := svc.Submit(ctx, 1, fields, []models.Upload{pdfUpload(2 * 1024 * 1024)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Len(t, app.Documents, 1)

	fc.ByIDRet = &models.Application{ID: 42, OwnerID: 1, Status: models.StatusPending, Fields: fields}

	_, err = svc.Decide(ctx, 42, models.StatusRejected, "")
	require.ErrorIs(t, err, common.ErrValidation)

	decided, err := svc.Decide(ctx, 42, models.StatusRejected, "insufficient experience")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, decided.Status)
	assert.Equal(t, "insufficient experience", decided.RejectionReason)

	fc.ByIDRet.Status = models.StatusRejected
	name := "Someone Else"
	_, err = svc.EditFields(ctx, 42, FieldsPatch{FullName: &name})
	require.ErrorIs(t, err, common.ErrForbidden)
}
