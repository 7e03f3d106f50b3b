package docs

import (
	"cloudnest/internal/dto"
	"cloudnest/internal/models"
	utils "cloudnest/internal/utils/http_errors"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, dp DocumentProvider) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	rawDocs, err := dp.ListAccessible(ctx, requester)
	if err != nil {
		log.Error("failed to list documents", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	dtoDocs := make([]dto.DocumentResponse, 0)

	for _, doc := range rawDocs {
		dtoDocs = append(dtoDocs, dto.DocumentResponse{
			ID:             doc.ID,
			Name:           doc.Name,
			OwnerEmail:     doc.OwnerEmail,
			CurrentVersion: doc.CurrentVersion,
			CreatedAt:      doc.CreatedAt,
		})
	}

	response := map[string]any{
		"data": map[string]any{
			"docs": dtoDocs,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
