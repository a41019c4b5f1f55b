package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is an application's lifecycle state.
//
// NOT_SUBMITTED → PENDING → {APPROVED, REJECTED}; the last two are terminal.
type Status string

const (
	StatusNotSubmitted Status = "NOT_SUBMITTED"
	StatusPending      Status = "PENDING"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

// ParseStatus normalizes a status string reported by the server. The
// "not submitted" sentinel is a legal value here, not an error: the server
// reports it for applicants who have never submitted.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusNotSubmitted:
		return StatusNotSubmitted, nil
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown application status %q", s)
	}
}

// Terminal reports whether no further transitions are permitted.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Editable reports whether the owner may still change application fields.
func (s Status) Editable() bool {
	return s == StatusNotSubmitted || s == StatusPending
}

// Fields is the applicant-editable portion of an application.
type Fields struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	Address         string `json:"address"`
	ExperienceYears int    `json:"experienceYears"`
	Program         string `json:"program"`
}

// Application is one applicant's certification application. It is owned by
// exactly one applicant; reviewers and admins only reference it. The wire
// format carries the editable fields inline, hence the embedding.
type Application struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"userId"`
	Status  Status `json:"status"`
	Fields
	RejectionReason string     `json:"rejectionReason,omitempty"`
	Documents       []Document `json:"documents,omitempty"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
}
