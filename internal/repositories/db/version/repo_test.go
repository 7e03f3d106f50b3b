package versionrepo

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"cloudnest/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAppend_Success(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT current_version FROM documents(.|\n)*FOR UPDATE").
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"current_version"}).AddRow(2))
	mock.ExpectExec("INSERT INTO document_versions").
		WithArgs("doc1", 3, "documents/doc1/v3-report.pdf", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE documents SET current_version").
		WithArgs("doc1", 3, "documents/doc1/v3-report.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	storedWith := 0

	version, err := repo.Append(context.Background(), "doc1", func(v int) (string, error) {
		storedWith = v
		return fmt.Sprintf("documents/doc1/v%d-report.pdf", v), nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, storedWith)
	assert.Equal(t, 3, version.VersionNumber)
	assert.Equal(t, "documents/doc1/v3-report.pdf", version.BlobKey)
	assert.Equal(t, "doc1", version.DocumentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_StoreFailureRollsBack(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT current_version FROM documents(.|\n)*FOR UPDATE").
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"current_version"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.Append(context.Background(), "doc1", func(v int) (string, error) {
		return "", models.ErrStorage
	})
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DocumentNotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT current_version FROM documents(.|\n)*FOR UPDATE").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Append(context.Background(), "missing", func(v int) (string, error) {
		return fmt.Sprintf("documents/missing/v%d-a.txt", v), nil
	})
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_VersionConflict(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	pqErr := &pq.Error{Code: "23505", Constraint: "document_versions_doc_version_key"}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT current_version FROM documents(.|\n)*FOR UPDATE").
		WithArgs("doc1").
		WillReturnRows(sqlmock.NewRows([]string{"current_version"}).AddRow(1))
	mock.ExpectExec("INSERT INTO document_versions").
		WithArgs("doc1", 2, "documents/doc1/v2-report.pdf", sqlmock.AnyArg()).
		WillReturnError(pqErr)
	mock.ExpectRollback()

	_, err := repo.Append(context.Background(), "doc1", func(v int) (string, error) {
		return fmt.Sprintf("documents/doc1/v%d-report.pdf", v), nil
	})
	assert.ErrorIs(t, err, models.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDocument_Success(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "document_id", "version_number", "blob_key", "created_at"}).
		AddRow(2, "doc1", 2, "documents/doc1/v2-b.txt", now).
		AddRow(1, "doc1", 1, "documents/doc1/v1-a.txt", now)

	mock.ExpectQuery("SELECT(.|\n)*FROM document_versions v(.|\n)*WHERE v.document_id").
		WithArgs("doc1").
		WillReturnRows(rows)

	versions, err := repo.ListByDocument(context.Background(), "doc1")
	assert.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, 1, versions[1].VersionNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDocument_Empty(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer db.Close()
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "document_id", "version_number", "blob_key", "created_at"})

	mock.ExpectQuery("SELECT(.|\n)*FROM document_versions v(.|\n)*WHERE v.document_id").
		WithArgs("missing").
		WillReturnRows(rows)

	versions, err := repo.ListByDocument(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, versions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
