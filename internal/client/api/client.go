// Package api abstracts the remote certification service. The core consumes
// the Client interface; the shipped implementation speaks HTTP/JSON with
// bearer-token auth. Transport failures surface as the shared sentinel
// errors from internal/common, matched with errors.Is.
package api

import (
	"context"

	"github.com/certapply/certapply/internal/client/models"
)

// TokenSource supplies the credential to attach to outbound calls. An empty
// string means "no credential": the request goes out unauthenticated and
// authorization is left to the server and the guard.
type TokenSource func() string

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is the registration / reviewer-creation payload.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client is the remote API surface the core consumes. Implementations must
// honor context cancellation on every call.
type Client interface {
	// Auth and user management.
	Login(ctx context.Context, creds Credentials) (*models.Principal, error)
	Register(ctx context.Context, profile Profile) error
	AddReviewer(ctx context.Context, profile Profile) error
	ListUsers(ctx context.Context, page, size int) (*models.UserPage, error)
	UsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	UpdateProfile(ctx context.Context, userID int64, profile Profile) (*models.User, error)

	// Application lifecycle.
	ApplicationStatus(ctx context.Context, userID int64) (models.Status, error)
	ApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	ApplicationByUser(ctx context.Context, userID int64) (*models.Application, error)
	SubmitApplication(ctx context.Context, userID int64, fields models.Fields) (*models.Application, error)
	UpdateApplication(ctx context.Context, id int64, fields models.Fields) (*models.Application, error)
	SetDecision(ctx context.Context, id int64, outcome models.Status, reason string) error
	PendingApplications(ctx context.Context) ([]models.Application, error)
	ApplicationsByStatus(ctx context.Context, status models.Status) ([]models.Application, error)
	StatusCounts(ctx context.Context) (*models.StatusCounts, error)

	// Documents.
	UploadDocuments(ctx context.Context, applicationID int64, uploads []models.Upload) error
	ViewDocument(ctx context.Context, documentID int64) ([]byte, string, error)
	DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error)

	// Notifications.
	Notifications(ctx context.Context, recipientID int64) ([]models.Event, error)

	Close() error
}
