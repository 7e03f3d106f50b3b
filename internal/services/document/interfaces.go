package documentservice

import (
	"cloudnest/internal/models"
	"context"
	"io"
	"time"
)

type DocumentRepository interface {
	CreateWithVersion(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]*models.Document, error)
	DeleteCascade(ctx context.Context, id string) error
}

type VersionLedger interface {
	Append(ctx context.Context, docID string, store func(version int) (string, error)) (*models.DocumentVersion, error)
	ListByDocument(ctx context.Context, docID string) ([]*models.DocumentVersion, error)
}

type AccessManager interface {
	Issue(ctx context.Context, docID string, requester *models.User, granteeEmail string, ttl time.Duration) (*models.AccessGrant, error)
	Revoke(ctx context.Context, token string, requester *models.User) error
	ResolveForDownload(ctx context.Context, token string) (string, error)
	ListActiveFor(ctx context.Context, email string) ([]*models.Document, error)
}

type BlobStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}
