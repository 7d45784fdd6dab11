// Package uploads stores certificate attachments and returns the path the
// record should reference.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

// MaxAttachmentSize is the largest accepted attachment, 5 MiB.
const MaxAttachmentSize = 5 * 1024 * 1024

var allowedContentTypes = []string{"image/jpeg", "image/png", "application/pdf"}

var (
	ErrTooLarge        = errors.New("maximum file size is 5MB")
	ErrUnsupportedType = errors.New("only JPEG, PNG, and PDF files are allowed")
	ErrEmpty           = errors.New("file is empty")
)

// CheckAttachment applies the size and type rules for certificate files.
func CheckAttachment(a *models.Attachment) error {
	if a == nil || len(a.Data) == 0 {
		return ErrEmpty
	}
	if len(a.Data) > MaxAttachmentSize {
		return ErrTooLarge
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(a.ContentType, ";", 2)[0]))
	for _, allowed := range allowedContentTypes {
		if ct == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}

// Uploader stores one attachment.
type Uploader interface {
	Upload(ctx context.Context, a *models.Attachment) (storedPath string, err error)
}

// UploadError describes one failed upload inside a batch. The batch keeps
// going; the certificate is submitted without a stored path.
type UploadError struct {
	Index int
	Name  string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload certificate #%d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
