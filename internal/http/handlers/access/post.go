package access

import (
	"cloudnest/internal/dto"
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

func Grant(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, reviewBase string, ag AccessGranter) {
	op := pkg + "Grant"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}
	defer r.Body.Close()

	var grantRequest dto.GrantRequest

	err = json.Unmarshal(body, &grantRequest)
	if err != nil {
		log.Error("unmarshal body", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	ttl := time.Duration(grantRequest.TTLHours) * time.Hour

	grant, err := ag.GrantAccess(ctx, docID, requester, grantRequest.Email, ttl)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("failed to grant access", slog.String("error", models.ErrDocumentNotFound.Error()))
			utils.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		if errors.Is(err, models.ErrForbidden) {
			log.Warn("failed to grant access", slog.String("error", models.ErrForbidden.Error()))
			utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
			return
		}
		if errors.Is(err, models.ErrInvalidParams) {
			log.Warn("failed to grant access", slog.String("error", models.ErrInvalidParams.Error()))
			utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		log.Error("failed to grant access", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	response := map[string]any{
		"data": dto.GrantResponse{
			Token:      grant.Token,
			ReviewLink: reviewBase + "/" + grant.Token,
			ExpiresAt:  grant.ExpiresAt,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
