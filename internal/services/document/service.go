package documentservice

import (
	"cloudnest/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

// DocumentService orchestrates the registry, the version ledger, the grant
// manager and the blob store. Record-level writes of every multi-step
// mutation happen inside a single repository transaction; blob writes and
// deletes are outside that boundary and are rolled back or reported
// best-effort.
type DocumentService struct {
	log        *slog.Logger
	docRepo    DocumentRepository
	versions   VersionLedger
	access     AccessManager
	cache      Cache
	blobStore  BlobStorage
	presignTTL time.Duration
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	versions VersionLedger,
	access AccessManager,
	cache Cache,
	blobStore BlobStorage,
	presignTTL time.Duration,
) *DocumentService {
	return &DocumentService{
		log:        log,
		docRepo:    docRepo,
		versions:   versions,
		access:     access,
		cache:      cache,
		blobStore:  blobStore,
		presignTTL: presignTTL,
	}
}

func blobKey(docID string, version int, filename string) string {
	return fmt.Sprintf("documents/%s/v%d-%s", docID, version, filename)
}

// Upload stores the content and creates the document with its first version.
// If the record insert fails the stored blob is removed again, so a failed
// upload leaves no half-created document behind.
func (ds *DocumentService) Upload(ctx context.Context, requester *models.User, filename string, content io.Reader, size int64) (*models.Document, error) {
	op := pkg + "Upload"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document", slog.String("name", filename))

	if filename == "" || content == nil {
		log.Warn("missing filename or content")
		return nil, models.ErrInvalidParams
	}

	docID := uuid.NewV4().String()
	key := blobKey(docID, 1, filename)

	if err := ds.blobStore.Put(ctx, key, content, size); err != nil {
		log.Error("failed to store blob", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrStorage)
	}

	doc := &models.Document{
		ID:             docID,
		OwnerEmail:     requester.Email,
		Name:           filename,
		CurrentVersion: 1,
		BlobKey:        key,
		CreatedAt:      time.Now(),
	}

	if err := ds.docRepo.CreateWithVersion(ctx, doc); err != nil {
		log.Error("failed to save document records", slog.String("error", err.Error()))
		if delErr := ds.blobStore.Delete(ctx, key); delErr != nil {
			log.Error("failed to roll back blob", slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID))

	return doc, nil
}

// UploadNewVersion appends the next version of an existing document. Only
// the owner may upload versions. The ledger append serializes per document,
// so concurrent uploads never produce duplicate version numbers.
func (ds *DocumentService) UploadNewVersion(ctx context.Context, docID string, requester *models.User, filename string, content io.Reader, size int64) (*models.DocumentVersion, error) {
	op := pkg + "UploadNewVersion"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload new version", slog.String("doc_id", docID))

	if filename == "" || content == nil {
		log.Warn("missing filename or content")
		return nil, models.ErrInvalidParams
	}

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if doc.OwnerEmail != requester.Email {
		log.Warn("requester is not the document owner", slog.String("doc_id", docID))
		return nil, models.ErrForbidden
	}

	// The blob key is built from the version number the ledger allocates
	// under its row lock, never from the cached CurrentVersion, so two
	// concurrent uploads cannot write to the same object key.
	var key string

	version, err := ds.versions.Append(ctx, docID, func(next int) (string, error) {
		key = blobKey(docID, next, filename)
		if putErr := ds.blobStore.Put(ctx, key, content, size); putErr != nil {
			log.Error("failed to store blob", slog.String("error", putErr.Error()))
			return "", models.ErrStorage
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, models.ErrStorage) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrStorage)
		}
		if key != "" {
			if delErr := ds.blobStore.Delete(ctx, key); delErr != nil {
				log.Error("failed to roll back blob", slog.String("error", delErr.Error()))
			}
		}
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document vanished before append", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		if errors.Is(err, models.ErrVersionConflict) {
			log.Warn("version conflict", slog.String("doc_id", docID))
			return nil, models.ErrVersionConflict
		}
		log.Error("failed to append version", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, docID); err != nil {
		log.Error("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("new version uploaded", slog.String("doc_id", docID), slog.Int("version", version.VersionNumber))

	return version, nil
}

// DownloadDocument streams the content of the document's current version.
// Only the owner may download directly; grantees download through review
// links.
func (ds *DocumentService) DownloadDocument(ctx context.Context, docID string, requester *models.User) (io.ReadCloser, *models.Document, error) {
	op := pkg + "DownloadDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to download document", slog.String("doc_id", docID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	if doc.OwnerEmail != requester.Email {
		log.Warn("requester is not the document owner", slog.String("doc_id", docID))
		return nil, nil, models.ErrForbidden
	}

	content, err := ds.blobStore.Get(ctx, doc.BlobKey)
	if err != nil {
		log.Error("failed to fetch blob", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrStorage)
	}

	log.Debug("document download resolved", slog.String("doc_id", docID))

	return content, doc, nil
}

// ListAccessible returns the union of owned documents and documents the
// requester holds a grant for. The union is not deduplicated: a user who
// owns a document and also holds a grant on it sees it twice.
func (ds *DocumentService) ListAccessible(ctx context.Context, requester *models.User) ([]*models.Document, error) {
	op := pkg + "ListAccessible"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to list accessible documents")

	owned, err := ds.docRepo.ListByOwner(ctx, requester.Email)
	if err != nil {
		log.Error("failed to list owned documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	granted, err := ds.access.ListActiveFor(ctx, requester.Email)
	if err != nil {
		log.Error("failed to list granted documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docs := make([]*models.Document, 0, len(owned)+len(granted))
	docs = append(docs, owned...)
	docs = append(docs, granted...)

	log.Debug("documents listed", slog.Int("count", len(docs)))

	return docs, nil
}

// GrantAccess issues a share token for the document; authorization is
// enforced by the grant manager.
func (ds *DocumentService) GrantAccess(ctx context.Context, docID string, requester *models.User, granteeEmail string, ttl time.Duration) (*models.AccessGrant, error) {
	return ds.access.Issue(ctx, docID, requester, granteeEmail, ttl)
}

// RevokeAccess revokes the grant behind the token; authorization is enforced
// by the grant manager.
func (ds *DocumentService) RevokeAccess(ctx context.Context, token string, requester *models.User) error {
	return ds.access.Revoke(ctx, token, requester)
}

// ResolveReviewLink validates the share token and returns a time-limited
// download URL for the document's current version.
func (ds *DocumentService) ResolveReviewLink(ctx context.Context, token string) (string, error) {
	op := pkg + "ResolveReviewLink"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to resolve review link")

	key, err := ds.access.ResolveForDownload(ctx, token)
	if err != nil {
		return "", err
	}

	url, err := ds.blobStore.PresignGet(ctx, key, ds.presignTTL)
	if err != nil {
		log.Error("failed to presign download url", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrStorage)
	}

	log.Debug("review link resolved")

	return url, nil
}

// DeleteDocument removes the document with all versions and grants. Blobs
// are deleted first and best-effort: a failed blob delete is logged so the
// orphan can be collected later, but never aborts the record cleanup.
func (ds *DocumentService) DeleteDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to delete document", slog.String("doc_id", docID))

	doc, err := ds.documentMetaByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.OwnerEmail != requester.Email {
		log.Warn("requester is not the document owner", slog.String("doc_id", docID))
		return models.ErrForbidden
	}

	versions, err := ds.versions.ListByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list versions", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	for _, version := range versions {
		if err := ds.blobStore.Delete(ctx, version.BlobKey); err != nil {
			log.Error("failed to delete blob, orphan left behind",
				slog.String("blob_key", version.BlobKey),
				slog.String("error", err.Error()))
		}
	}

	if err := ds.docRepo.DeleteCascade(ctx, docID); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document already deleted", slog.String("doc_id", docID))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to delete document records", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := ds.cache.Del(ctx, docID); err != nil {
		log.Error("failed to invalidate document cache", slog.String("error", err.Error()))
	}

	log.Debug("document deleted", slog.String("doc_id", docID))

	return nil
}

func (ds *DocumentService) documentMetaByID(ctx context.Context, docID string) (*models.Document, error) {
	op := pkg + "documentMetaByID"

	log := ds.log.With(slog.String("op", op))

	docJSON, err := ds.cache.Get(ctx, docID)
	if err == nil && docJSON != "" {
		doc, err := jsonToDoc(docJSON)
		if err != nil {
			log.Error("failed to parse json to doc", slog.String("error", err.Error()))
			return nil, models.ErrInternal
		}
		return doc, nil
	}

	log.Debug("document cache miss", slog.String("doc_id", docID))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		log.Error("failed to get document by id", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docJSON, err = docToJSON(doc)
	if err != nil {
		log.Error("failed to parse doc to json", slog.String("error", err.Error()))
	} else if err := ds.cache.Set(ctx, docID, docJSON); err != nil {
		log.Warn("failed to set doc to cache", slog.String("error", err.Error()))
	}

	return doc, nil
}

func docToJSON(doc *models.Document) (string, error) {
	jsonSlice, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	return string(jsonSlice), nil
}

func jsonToDoc(s string) (*models.Document, error) {
	if len(s) == 0 {
		return nil, errors.New("empty json string")
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
