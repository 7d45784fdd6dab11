package uploads

import (
	"context"

	"github.com/krktechnologyandservices/GBV/internal/client/client"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

// FileUploader is the part of client.Client used for uploads.
type FileUploader interface {
	UploadFile(ctx context.Context, data []byte, meta client.FileMeta) (string, error)
}

// RemoteUploader sends attachments through the record service itself.
type RemoteUploader struct {
	client FileUploader
}

func NewRemoteUploader(c FileUploader) *RemoteUploader {
	return &RemoteUploader{client: c}
}

func (u *RemoteUploader) Upload(ctx context.Context, a *models.Attachment) (string, error) {
	return u.client.UploadFile(ctx, a.Data, client.FileMeta{Name: a.Name, ContentType: a.ContentType})
}
