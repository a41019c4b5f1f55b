package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
	"github.com/certapply/certapply/internal/common"
	"github.com/certapply/certapply/internal/logging"
)

// FieldsPatch is a partial edit of application fields; nil members are left
// unchanged.
type FieldsPatch struct {
	FullName        *string
	PhoneNumber     *string
	Address         *string
	ExperienceYears *int
	Program         *string
}

func (p FieldsPatch) apply(f models.Fields) models.Fields {
	if p.FullName != nil {
		f.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		f.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		f.Address = *p.Address
	}
	if p.ExperienceYears != nil {
		f.ExperienceYears = *p.ExperienceYears
	}
	if p.Program != nil {
		f.Program = *p.Program
	}
	return f
}

// ApplicationService drives one application through
// NOT_SUBMITTED → PENDING → {APPROVED, REJECTED}.
//
// Mutating operations are serialized per application id client-side; the
// terminal-state check before each remote mutation is the correctness
// backstop against racing decisions.
type ApplicationService interface {
	Submit(ctx context.Context, ownerID int64, fields models.Fields, uploads []models.Upload) (*models.Application, error)
	Decide(ctx context.Context, applicationID int64, outcome models.Status, reason string) (*models.Application, error)
	EditFields(ctx context.Context, applicationID int64, patch FieldsPatch) (*models.Application, error)
	CurrentStatus(ctx context.Context, userID int64) (models.Status, error)

	ByID(ctx context.Context, applicationID int64) (*models.Application, error)
	ByOwner(ctx context.Context, userID int64) (*models.Application, error)
	Pending(ctx context.Context) ([]models.Application, error)
	ByStatus(ctx context.Context, status models.Status) ([]models.Application, error)

	ViewDocument(ctx context.Context, documentID int64) ([]byte, string, error)
	DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error)
}

type applicationService struct {
	client api.Client
	log    logging.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewApplicationService(client api.Client, log logging.Logger) ApplicationService {
	return &applicationService{
		client: client,
		log:    log.With("service", "application"),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// lockFor returns the per-application mutex, creating it on first use.
// Submit uses the owner id as the key since no application id exists yet.
func (s *applicationService) lockFor(key int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func validateFields(f models.Fields) error {
	switch {
	case strings.TrimSpace(f.FullName) == "":
		return fmt.Errorf("%w: full name is required", common.ErrValidation)
	case strings.TrimSpace(f.PhoneNumber) == "":
		return fmt.Errorf("%w: phone number is required", common.ErrValidation)
	case strings.TrimSpace(f.Address) == "":
		return fmt.Errorf("%w: address is required", common.ErrValidation)
	case strings.TrimSpace(f.Program) == "":
		return fmt.Errorf("%w: program is required", common.ErrValidation)
	case f.ExperienceYears < 0:
		return fmt.Errorf("%w: experience years cannot be negative", common.ErrValidation)
	default:
		return nil
	}
}

// Submit creates the owner's application. Legal only from NOT_SUBMITTED:
// submission happens at most once per applicant.
//
// Submission and document attachment are two dependent remote calls. When
// the second fails the application is already PENDING with zero documents;
// Submit returns the application together with the upload error instead of
// rolling back.
func (s *applicationService) Submit(ctx context.Context, ownerID int64, fields models.Fields, uploads []models.Upload) (*models.Application, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}
	for _, u := range uploads {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	l := s.lockFor(ownerID)
	l.Lock()
	defer l.Unlock()

	status, err := s.client.ApplicationStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if status != models.StatusNotSubmitted {
		return nil, fmt.Errorf("%w: application already submitted (status %s)", common.ErrInvalidTransition, status)
	}

	app, err := s.client.SubmitApplication(ctx, ownerID, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "application submitted", "application", app.ID, "owner", ownerID)

	if len(uploads) > 0 {
		if err := s.client.UploadDocuments(ctx, app.ID, uploads); err != nil {
			s.log.Warn(ctx, "document upload failed after submission", "application", app.ID, "error", err)
			return app, fmt.Errorf("application %d submitted, but uploading documents failed: %w", app.ID, err)
		}
	}

	return app, nil
}

// Decide applies a reviewer's outcome. Legal only while PENDING; deciding
// an already-terminal application fails rather than silently succeeding, so
// a prior reviewer's decision can never be overwritten.
func (s *applicationService) Decide(ctx context.Context, applicationID int64, outcome models.Status, reason string) (*models.Application, error) {
	if outcome != models.StatusApproved && outcome != models.StatusRejected {
		return nil, fmt.Errorf("%w: outcome must be APPROVED or REJECTED, got %s", common.ErrValidation, outcome)
	}
	reason = strings.TrimSpace(reason)
	if outcome == models.StatusRejected && reason == "" {
		return nil, fmt.Errorf("%w: a rejection requires a reason", common.ErrValidation)
	}

	l := s.lockFor(applicationID)
	l.Lock()
	defer l.Unlock()

	app, err := s.client.ApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: application %d is %s", common.ErrInvalidTransition, applicationID, app.Status)
	}

	if err := s.client.SetDecision(ctx, applicationID, outcome, reason); err != nil {
		return nil, err
	}

	app.Status = outcome
	if outcome == models.StatusRejected {
		app.RejectionReason = reason
	}
	s.log.Info(ctx, "application decided", "application", applicationID, "outcome", outcome)
	return app, nil
}

// EditFields updates the owner's application fields while it is still
// editable. Ownership is the caller's concern (checked via the guard).
func (s *applicationService) EditFields(ctx context.Context, applicationID int64, patch FieldsPatch) (*models.Application, error) {
	l := s.lockFor(applicationID)
	l.Lock()
	defer l.Unlock()

	app, err := s.client.ApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.Status.Editable() {
		return nil, fmt.Errorf("%w: application %d is %s", common.ErrForbidden, applicationID, app.Status)
	}

	merged := patch.apply(app.Fields)
	if err := validateFields(merged); err != nil {
		return nil, err
	}

	updated, err := s.client.UpdateApplication(ctx, applicationID, merged)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "application updated", "application", applicationID)
	return updated, nil
}

// CurrentStatus projects the owner's application status. The remote
// NOT_SUBMITTED sentinel arrives here already normalized by the API layer.
func (s *applicationService) CurrentStatus(ctx context.Context, userID int64) (models.Status, error) {
	return s.client.ApplicationStatus(ctx, userID)
}

func (s *applicationService) ByID(ctx context.Context, applicationID int64) (*models.Application, error) {
	return s.client.ApplicationByID(ctx, applicationID)
}

func (s *applicationService) ByOwner(ctx context.Context, userID int64) (*models.Application, error) {
	return s.client.ApplicationByUser(ctx, userID)
}

func (s *applicationService) Pending(ctx context.Context) ([]models.Application, error) {
	return s.client.PendingApplications(ctx)
}

func (s *applicationService) ByStatus(ctx context.Context, status models.Status) ([]models.Application, error) {
	return s.client.ApplicationsByStatus(ctx, status)
}

func (s *applicationService) ViewDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return s.client.ViewDocument(ctx, documentID)
}

func (s *applicationService) DownloadDocument(ctx context.Context, documentID int64) ([]byte, string, error) {
	return s.client.DownloadDocument(ctx, documentID)
}
