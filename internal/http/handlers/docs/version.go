package docs

import (
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func UploadVersion(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, du DocumentUploader) {
	op := pkg + "UploadVersion"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Error("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("missing file part", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	version, err := du.UploadNewVersion(ctx, docID, requester, header.Filename, file, header.Size)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("failed to upload version", slog.String("error", models.ErrDocumentNotFound.Error()))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to upload version", slog.String("error", models.ErrForbidden.Error()))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrVersionConflict) {
			log.Warn("failed to upload version", slog.String("error", models.ErrVersionConflict.Error()))
			utils.WriteJSONError(w, http.StatusConflict, models.ErrVersionConflict.Error())
			return
		}
		if errors.Is(err, models.ErrStorage) {
			log.Error("failed to upload version", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadGateway, models.ErrStorage.Error())
			return
		}
		log.Error("failed to upload version", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"id":      version.DocumentID,
			"version": version.VersionNumber,
			"created": version.CreatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
