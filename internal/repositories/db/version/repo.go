package versionrepo

import (
	"cloudnest/internal/entities"
	"cloudnest/internal/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "versionRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Append allocates the next version number for the document and advances the
// document's current-version pointer in the same transaction. The row lock on
// the document serializes concurrent appends, so version numbers stay a
// gapless 1..N sequence. store is invoked with the allocated number while the
// lock is held and returns the blob key to record; computing the key from the
// locked read keeps concurrent appends from writing to the same object.
func (r *repository) Append(ctx context.Context, docID string, store func(version int) (string, error)) (*models.DocumentVersion, error) {
	op := pkg + "Append"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var current int

	err = tx.GetContext(ctx, &current,
		`SELECT current_version FROM documents WHERE id = $1 FOR UPDATE`,
		docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blobKey, err := store(current + 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	version := &models.DocumentVersion{
		DocumentID:    docID,
		VersionNumber: current + 1,
		BlobKey:       blobKey,
		CreatedAt:     time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (document_id, version_number, blob_key, created_at)
		VALUES ($1, $2, $3, $4)`,
		version.DocumentID, version.VersionNumber, version.BlobKey, version.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%s: %w", op, models.ErrVersionConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET current_version = $2, blob_key = $3 WHERE id = $1`,
		docID, version.VersionNumber, version.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return version, nil
}

func (r *repository) ListByDocument(ctx context.Context, docID string) ([]*models.DocumentVersion, error) {
	op := pkg + "ListByDocument"

	rawVersions := make([]entities.DocumentVersion, 0)

	err := r.db.SelectContext(ctx, &rawVersions,
		`SELECT
			v.id AS id,
			v.document_id AS document_id,
			v.version_number AS version_number,
			v.blob_key AS blob_key,
			v.created_at AS created_at
		FROM document_versions v
		WHERE v.document_id = $1
		ORDER BY v.version_number DESC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	versions := make([]*models.DocumentVersion, 0)

	for _, rawVersion := range rawVersions {
		versions = append(versions, &models.DocumentVersion{
			DocumentID:    rawVersion.DocumentID,
			VersionNumber: rawVersion.VersionNumber,
			BlobKey:       rawVersion.BlobKey,
			CreatedAt:     rawVersion.CreatedAt,
		})
	}

	return versions, nil
}
