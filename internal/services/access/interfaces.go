package accessservice

import (
	"cloudnest/internal/models"
	"context"
)

type GrantRepository interface {
	CreateGrant(ctx context.Context, grant *models.AccessGrant) error
	GrantByToken(ctx context.Context, token string) (*models.AccessGrant, error)
	Revoke(ctx context.Context, token string) error
	DocumentsGrantedTo(ctx context.Context, email string) ([]*models.Document, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}
