package access

import (
	"cloudnest/internal/models"
	"context"
	"time"
)

const pkg = "accessHandler/"

type AccessGranter interface {
	GrantAccess(ctx context.Context, docID string, requester *models.User, granteeEmail string, ttl time.Duration) (*models.AccessGrant, error)
}

type AccessRevoker interface {
	RevokeAccess(ctx context.Context, token string, requester *models.User) error
}
