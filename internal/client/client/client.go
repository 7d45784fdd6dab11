package client

import (
	"context"

	"github.com/krktechnologyandservices/GBV/internal/client/models"
)

// FileMeta describes an uploaded artifact.
type FileMeta struct {
	Name        string
	ContentType string
}

// Client is the CRUD contract of the remote record service.
type Client interface {
	FetchAll(ctx context.Context) ([]models.Record, error)
	FetchOne(ctx context.Context, id int64) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, id int64, rec *models.Record) (*models.Record, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, active bool) error

	// UploadFile stores data remotely and returns the stored path.
	UploadFile(ctx context.Context, data []byte, meta FileMeta) (string, error)

	FetchAttributeCatalog(ctx context.Context) ([]models.AttributeDefinition, error)

	Ping(ctx context.Context) error
	Close() error
}
