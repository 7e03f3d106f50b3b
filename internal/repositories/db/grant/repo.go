package grantrepo

import (
	"cloudnest/internal/entities"
	"cloudnest/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "grantRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateGrant(ctx context.Context, grant *models.AccessGrant) error {
	op := pkg + "CreateGrant"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_grants (id, document_id, user_email, token, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		grant.ID, grant.DocumentID, grant.UserEmail, grant.Token, grant.ExpiresAt, grant.Revoked, grant.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) GrantByToken(ctx context.Context, token string) (*models.AccessGrant, error) {
	op := pkg + "GrantByToken"

	rawGrant := entities.AccessGrant{}

	err := r.db.GetContext(ctx, &rawGrant,
		`SELECT
			g.id AS id,
			g.document_id AS document_id,
			g.user_email AS user_email,
			g.token AS token,
			g.expires_at AS expires_at,
			g.revoked AS revoked,
			g.created_at AS created_at
		FROM access_grants g
		WHERE g.token = $1`,
		token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrGrantNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.AccessGrant{
		ID:         rawGrant.ID,
		DocumentID: rawGrant.DocumentID,
		UserEmail:  rawGrant.UserEmail,
		Token:      rawGrant.Token,
		ExpiresAt:  rawGrant.ExpiresAt,
		Revoked:    rawGrant.Revoked,
		CreatedAt:  rawGrant.CreatedAt,
	}, nil
}

// Revoke flips the revoked flag. Revoking an already-revoked grant is a
// no-op, not an error.
func (r *repository) Revoke(ctx context.Context, token string) error {
	op := pkg + "Revoke"

	res, err := r.db.ExecContext(ctx,
		`UPDATE access_grants SET revoked = TRUE WHERE token = $1`,
		token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrGrantNotFound)
	}

	return nil
}

// DocumentsGrantedTo lists documents the email holds a non-revoked grant
// for. Expired grants are included; expiry is enforced only at download
// resolution.
func (r *repository) DocumentsGrantedTo(ctx context.Context, email string) ([]*models.Document, error) {
	op := pkg + "DocumentsGrantedTo"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT
			d.id AS id,
			d.owner_email AS owner_email,
			d.name AS name,
			d.current_version AS current_version,
			d.blob_key AS blob_key,
			d.created_at AS created_at
		FROM documents d
		INNER JOIN access_grants g ON g.document_id = d.id
		WHERE g.user_email = $1 AND g.revoked = FALSE`,
		email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0)

	for _, rawDoc := range rawDocs {
		docs = append(docs, &models.Document{
			ID:             rawDoc.ID,
			OwnerEmail:     rawDoc.OwnerEmail,
			Name:           rawDoc.Name,
			CurrentVersion: rawDoc.CurrentVersion,
			BlobKey:        rawDoc.BlobKey,
			CreatedAt:      rawDoc.CreatedAt,
		})
	}

	return docs, nil
}
