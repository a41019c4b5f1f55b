package models

import (
	"fmt"

	"github.com/certapply/certapply/internal/common"
)

// MaxDocumentSize is the largest document accepted for upload.
const MaxDocumentSize = 5 * 1024 * 1024

// allowedDocumentTypes lists the MIME types the service accepts.
var allowedDocumentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Document is a file attached to exactly one application at upload time,
// immutable thereafter.
type Document struct {
	ID        int64  `json:"id"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"fileType"`
	SizeBytes int64  `json:"fileSize"`
}

// Upload is a document candidate that has passed no checks yet; Validate
// runs the pre-network checks.
type Upload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Content   []byte
}

// Validate rejects oversized files and disallowed types before any upload
// is attempted. Errors wrap common.ErrValidation.
func (u Upload) Validate() error {
	if _, ok := allowedDocumentTypes[u.MimeType]; !ok {
		return fmt.Errorf("%w: file type %s is not accepted (PDF, DOC, DOCX only)", common.ErrValidation, u.MimeType)
	}
	if u.SizeBytes > MaxDocumentSize {
		return fmt.Errorf("%w: file %s exceeds the 5 MB limit", common.ErrValidation, u.FileName)
	}
	return nil
}
