package services

import (
	"context"
	"sync"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
)

// fakeClient implements api.Client for unit tests. Zero-valued fields mean
// "succeed with the zero result"; tests set only what they need.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *models.Principal
	LoginErr error

	RegisterErr    error
	AddReviewerErr error

	ListUsersRet *models.UserPage
	ListUsersErr error

	UsersByRoleRet []models.User
	UsersByRoleErr error

	UpdateProfileRet *models.User
	UpdateProfileErr error

	StatusRet models.Status
	StatusErr error

	ByIDRet *models.Application
	ByIDErr error

	ByUserRet *models.Application
	ByUserErr error

	SubmitRet *models.Application
	SubmitErr error

	UpdateAppRet *models.Application
	UpdateAppErr error

	DecisionErr error

	PendingRet []models.Application
	PendingErr error

	ByStatusRet []models.Application
	ByStatusErr error

	CountsRet *models.StatusCounts
	CountsErr error

	UploadErr error

	DownloadRet     []byte
	DownloadType    string
	DownloadErr     error
	NotificationRet []models.Event
	NotificationErr error

	// NotificationSeq, when non-empty, is consumed one response per poll
	// before falling back to NotificationRet/NotificationErr.
	NotificationSeq []notificationResp

	// recorded calls
	StatusCalls     int
	SubmitCalls     int
	DecisionCalls   int
	UploadCalls     int
	PollCalls       int
	LastSubmitOwner int64
	LastDecisionID  int64
	LastOutcome     models.Status
	LastReason      string
	LastUploads     []models.Upload
	LastUploadAppID int64
}

func (f *fakeClient) Login(ctx context.Context, creds api.Credentials) (*models.Principal, error) {
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, profile api.Profile) error {
	return f.RegisterErr
}

func (f *fakeClient) AddReviewer(ctx context.Context, profile api.Profile) error {
	return f.AddReviewerErr
}

func (f *fakeClient) ListUsers(ctx context.Context, page, size int) (*models.UserPage, error) {
	return f.ListUsersRet, f.ListUsersErr
}

func (f *fakeClient) UsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return f.UsersByRoleRet, f.UsersByRoleErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, userID int64, profile api.Profile) (*models.User, error) {
	return f.UpdateProfileRet, f.UpdateProfileErr
}

func (f *fakeClient) ApplicationStatus(ctx context.Context, userID int64) (models.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusCalls++
	return f.StatusRet, f.StatusErr
}

func (f *fakeClient) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	if f.ByIDRet == nil {
		return nil, f.ByIDErr
	}
	cp := *f.ByIDRet
	return &cp, f.ByIDErr
}

func (f *fakeClient) ApplicationByUser(ctx context.Context, userID int64) (*models.Application, error) {
	return f.ByUserRet, f.ByUserErr
}

func (f *fakeClient) SubmitApplication(ctx context.Context, userID int64, fields models.Fields) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SubmitCalls++
	f.LastSubmitOwner = userID
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeClient) UpdateApplication(ctx context.Context, id int64, fields models.Fields) (*models.Application, error) {
	return f.UpdateAppRet, f.UpdateAppErr
}

func (f *fakeClient) SetDecision(ctx context.Context, id int64, outcome models.Status, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DecisionCalls++
	f.LastDecisionID = id
	f.LastOutcome = outcome
	f.LastReason = reason
	return f.DecisionErr
}

func (f *fakeClient) PendingApplications(ctx context.Context) ([]models.Application, error) {
	return f.PendingRet, f.PendingErr
}

func (f *fakeClient) ApplicationsByStatus(ctx context.Context, status models.Status) ([]models.Application, error) {
	return f.ByStatusRet, f.ByStatusErr
}

func (f *fakeClient) StatusCounts(ctx context.Context) (*models.StatusCounts, error) {
	return f.CountsRet, f.CountsErr
}

func (f *fakeClient) UploadDocuments(ctx context.Context, applicationID int64, uploads []models.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UploadCalls++
	f.LastUploadAppID = applicationID
	f.LastUploads = uploads
	return f.UploadErr
}

func (f *fakeClient) ViewDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return f.DownloadRet, f.DownloadType, f.DownloadErr
}

func (f *fakeClient) DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return f.DownloadRet, f.DownloadType, f.DownloadErr
}

type notificationResp struct {
	Events []models.Event
	Err    error
}

func (f *fakeClient) Notifications(ctx context.Context, recipientID int64) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PollCalls++
	if len(f.NotificationSeq) > 0 {
		resp := f.NotificationSeq[0]
		f.NotificationSeq = f.NotificationSeq[1:]
		return resp.Events, resp.Err
	}
	return f.NotificationRet, f.NotificationErr
}

func (f *fakeClient) Close() error { return nil }
