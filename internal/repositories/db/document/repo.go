package documentrepo

import (
	"cloudnest/internal/entities"
	"cloudnest/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// CreateWithVersion inserts the document row together with its first ledger
// entry, so a crash can never leave a document without version 1.
func (r *repository) CreateWithVersion(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateWithVersion"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, owner_email, name, current_version, blob_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.ID, doc.OwnerEmail, doc.Name, doc.CurrentVersion, doc.BlobKey, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (document_id, version_number, blob_key, created_at)
		VALUES ($1, $2, $3, $4)`,
		doc.ID, doc.CurrentVersion, doc.BlobKey, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.owner_email AS owner_email,
			d.name AS name,
			d.current_version AS current_version,
			d.blob_key AS blob_key,
			d.created_at AS created_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Document{
		ID:             rawDoc.ID,
		OwnerEmail:     rawDoc.OwnerEmail,
		Name:           rawDoc.Name,
		CurrentVersion: rawDoc.CurrentVersion,
		BlobKey:        rawDoc.BlobKey,
		CreatedAt:      rawDoc.CreatedAt,
	}, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerEmail string) ([]*models.Document, error) {
	op := pkg + "ListByOwner"

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
		WHERE d.owner_email = $1`,
		ownerEmail)
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

// DeleteCascade removes the grant rows, the version rows and the document
// row in one transaction: either the whole record-level cleanup lands or
// none of it does.
func (r *repository) DeleteCascade(ctx context.Context, id string) error {
	op := pkg + "DeleteCascade"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM access_grants WHERE document_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM document_versions WHERE document_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
