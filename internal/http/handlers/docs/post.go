package docs

import (
	"cloudnest/internal/dto"
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, du DocumentUploader) {
	op := pkg + "Upload"

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

	doc, err := du.Upload(ctx, requester, header.Filename, file, header.Size)
	if err != nil {
		if errors.Is(err, models.ErrInvalidParams) {
			log.Warn("failed to upload document", slog.String("error", models.ErrInvalidParams.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		if errors.Is(err, models.ErrStorage) {
			log.Error("failed to upload document", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadGateway, models.ErrStorage.Error())
			return
		}
		log.Error("failed to upload document", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": dto.DocumentResponse{
			ID:             doc.ID,
			Name:           doc.Name,
			OwnerEmail:     doc.OwnerEmail,
			CurrentVersion: doc.CurrentVersion,
			CreatedAt:      doc.CreatedAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
