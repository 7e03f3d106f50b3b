package review

import (
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, rr ReviewResolver) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	url, err := rr.ResolveReviewLink(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			log.Warn("failed to resolve review link", slog.String("error", models.ErrGrantNotFound.Error()))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrGrantNotFound.Error())
			return
		}
		if errors.Is(err, models.ErrAccessExpired) {
			log.Warn("failed to resolve review link", slog.String("error", models.ErrAccessExpired.Error()))
			utils.WriteJSONError(w, http.StatusGone, models.ErrAccessExpired.Error())
			return
		}
		if errors.Is(err, models.ErrStorage) {
			log.Error("failed to resolve review link", slog.String("error", err.Error()))
			utils.WriteJSONError(w, http.StatusBadGateway, models.ErrStorage.Error())
			return
		}
		log.Error("failed to resolve review link", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": map[string]any{
			"url": url,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
