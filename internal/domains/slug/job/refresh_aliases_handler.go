package job

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"dat-backend/internal/domains/slug/repository"
	"dat-backend/internal/shared"
	"dat-backend/pkg/logger"
)

// RefreshAliasesHandler drops cached alias sets so the next resolution
// rebuilds them from the roster. Scheduled periodically and enqueued
// on-demand after roster edits.
type RefreshAliasesHandler struct {
	aliases repository.AliasStore
}

func NewRefreshAliasesHandler(aliases repository.AliasStore) *RefreshAliasesHandler {
	return &RefreshAliasesHandler{aliases: aliases}
}

func (h *RefreshAliasesHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RefreshSlugAliasesPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("refresh aliases: bad payload", map[string]interface{}{"error": err.Error()})
		return asynq.SkipRetry
	}

	if err := h.aliases.Invalidate(ctx, payload.Slug); err != nil {
		return err
	}
	logger.Info("alias cache refreshed", map[string]interface{}{"slug": payload.Slug})
	return nil
}
