package accessservice

import (
	"cloudnest/internal/models"
	"cloudnest/internal/utils/token"
	"cloudnest/internal/validator"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
)

const pkg = "accessService/"

// AccessService issues, validates and revokes share grants. A grant stays
// authoritative for downloads while it is neither revoked nor expired;
// expired rows are kept as history until the document is deleted.
type AccessService struct {
	log         *slog.Logger
	grantRepo   GrantRepository
	docProvider DocumentProvider
	grantTTL    time.Duration
}

func New(
	log *slog.Logger,
	grantRepo GrantRepository,
	docProvider DocumentProvider,
	grantTTL time.Duration,
) *AccessService {
	return &AccessService{
		log:         log,
		grantRepo:   grantRepo,
		docProvider: docProvider,
		grantTTL:    grantTTL,
	}
}

// Issue creates a share grant for granteeEmail on the document. Only the
// document owner may issue grants. The returned token is the only cleartext
// copy the caller will ever get.
func (s *AccessService) Issue(ctx context.Context, docID string, requester *models.User, granteeEmail string, ttl time.Duration) (*models.AccessGrant, error) {
	op := pkg + "Issue"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to issue grant", slog.String("doc_id", docID))

	if !validator.IsValidEmail(granteeEmail) {
		log.Warn("invalid grantee email")
		return nil, models.ErrInvalidParams
	}

	doc, err := s.docProvider.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", docID))
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if doc.OwnerEmail != requester.Email {
		log.Warn("requester is not the document owner", slog.String("doc_id", docID))
		return nil, models.ErrForbidden
	}

	if ttl <= 0 {
		ttl = s.grantTTL
	}

	raw, err := token.Generate()
	if err != nil {
		log.Error("failed to generate token", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	grant := &models.AccessGrant{
		ID:         uuid.NewV4().String(),
		DocumentID: doc.ID,
		UserEmail:  granteeEmail,
		Token:      raw,
		ExpiresAt:  time.Now().Add(ttl),
		Revoked:    false,
		CreatedAt:  time.Now(),
	}

	if err := s.grantRepo.CreateGrant(ctx, grant); err != nil {
		log.Error("failed to store grant", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("grant issued", slog.String("doc_id", docID), slog.String("grantee", granteeEmail))

	return grant, nil
}

// Revoke marks the grant revoked. Either the document owner or the grantee
// may revoke; revoking twice is a no-op.
func (s *AccessService) Revoke(ctx context.Context, rawToken string, requester *models.User) error {
	op := pkg + "Revoke"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to revoke grant")

	grant, err := s.grantRepo.GrantByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			log.Warn("grant not found")
			return models.ErrGrantNotFound
		}
		log.Error("failed to get grant", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	doc, err := s.docProvider.DocumentByID(ctx, grant.DocumentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found", slog.String("doc_id", grant.DocumentID))
			return models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if requester.Email != doc.OwnerEmail && requester.Email != grant.UserEmail {
		log.Warn("requester may not revoke this grant", slog.String("doc_id", doc.ID))
		return models.ErrForbidden
	}

	if err := s.grantRepo.Revoke(ctx, rawToken); err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			return models.ErrGrantNotFound
		}
		log.Error("failed to revoke grant", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("grant revoked", slog.String("doc_id", doc.ID))

	return nil
}

// ResolveForDownload validates the token and returns the blob key of the
// document's current version. Unknown tokens are reported distinctly from
// revoked or expired grants.
func (s *AccessService) ResolveForDownload(ctx context.Context, rawToken string) (string, error) {
	op := pkg + "ResolveForDownload"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to resolve token for download")

	grant, err := s.grantRepo.GrantByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			log.Warn("grant not found")
			return "", models.ErrGrantNotFound
		}
		log.Error("failed to get grant", slog.String("error", err.Error()))
		return "", models.ErrInternal
	}

	if !grant.Active(time.Now()) {
		log.Warn("grant is revoked or expired", slog.String("doc_id", grant.DocumentID))
		return "", models.ErrAccessExpired
	}

	doc, err := s.docProvider.DocumentByID(ctx, grant.DocumentID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document no longer exists", slog.String("doc_id", grant.DocumentID))
			return "", models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("token resolved", slog.String("doc_id", doc.ID))

	return doc.BlobKey, nil
}

// ListActiveFor returns the documents the email holds a non-revoked grant
// for. Expired-but-unrevoked grants are included; expiry is checked only at
// download time.
func (s *AccessService) ListActiveFor(ctx context.Context, email string) ([]*models.Document, error) {
	op := pkg + "ListActiveFor"

	log := s.log.With(slog.String("op", op))

	log.Debug("attempting to list granted documents")

	docs, err := s.grantRepo.DocumentsGrantedTo(ctx, email)
	if err != nil {
		log.Error("failed to list granted documents", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("granted documents listed", slog.Int("count", len(docs)))

	return docs, nil
}
