package docs

import (
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, dd DocumentDownloader) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	content, doc, err := dd.DownloadDocument(ctx, docID, requester)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("failed to download document", slog.String("error", models.ErrDocumentNotFound.Error()))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to download document", slog.String("error", models.ErrForbidden.Error()))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrStorage) {
			log.Error("failed to download document", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadGateway, models.ErrStorage.Error())
			return
		}
		log.Error("failed to download document", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))

	if _, err := io.Copy(w, content); err != nil {
		log.Error("failed to stream document", slog.String("error", err.Error()))
	}
}
