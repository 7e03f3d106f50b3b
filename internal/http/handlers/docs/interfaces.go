package docs

import (
	"cloudnest/internal/models"
	"context"
	"io"
)

const pkg = "docsHandler/"

type DocumentUploader interface {
	Upload(ctx context.Context, requester *models.User, filename string, content io.Reader, size int64) (*models.Document, error)
	UploadNewVersion(ctx context.Context, docID string, requester *models.User, filename string, content io.Reader, size int64) (*models.DocumentVersion, error)
}

type DocumentProvider interface {
	ListAccessible(ctx context.Context, requester *models.User) ([]*models.Document, error)
}

type DocumentDownloader interface {
	DownloadDocument(ctx context.Context, docID string, requester *models.User) (io.ReadCloser, *models.Document, error)
}

type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
}
