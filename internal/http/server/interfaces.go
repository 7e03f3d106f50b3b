package server

import (
	"cloudnest/internal/models"
	"context"
	"io"
	"time"
)

type AuthService interface {
	Register(ctx context.Context, requester *models.User, email string, password string, role string) (string, error)
	Login(ctx context.Context, email string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type DocumentService interface {
	Upload(ctx context.Context, requester *models.User, filename string, content io.Reader, size int64) (*models.Document, error)
	UploadNewVersion(ctx context.Context, docID string, requester *models.User, filename string, content io.Reader, size int64) (*models.DocumentVersion, error)
	DownloadDocument(ctx context.Context, docID string, requester *models.User) (io.ReadCloser, *models.Document, error)
	ListAccessible(ctx context.Context, requester *models.User) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
	GrantAccess(ctx context.Context, docID string, requester *models.User, granteeEmail string, ttl time.Duration) (*models.AccessGrant, error)
	RevokeAccess(ctx context.Context, token string, requester *models.User) error
	ResolveReviewLink(ctx context.Context, token string) (string, error)
}

type SessionStorer interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
