package access

import (
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

func Revoke(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, ar AccessRevoker) {
	op := pkg + "Revoke"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	err := ar.RevokeAccess(ctx, token, requester)
	if err != nil {
		if errors.Is(err, models.ErrGrantNotFound) {
			log.Warn("failed to revoke access", slog.String("error", models.ErrGrantNotFound.Error()))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrGrantNotFound.Error())
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to revoke access", slog.String("error", models.ErrForbidden.Error()))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		log.Error("failed to revoke access", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"response": map[string]any{
			"revoked": true,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
