package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"dat-backend/internal/domains/slug/repository"
	"dat-backend/internal/shared"
	"dat-backend/pkg/logger"
)

// PersistForwardHandler writes queued forward rules into the
// Profile-Slugs tab. Delivery is at-least-once, so the write is an
// upsert keyed by fromSlug and the handler short-circuits when the map
// already carries the mapping.
type PersistForwardHandler struct {
	forward repository.ForwardMap
	writer  repository.RuleWriter
	aliases repository.AliasStore
}

func NewPersistForwardHandler(forward repository.ForwardMap, writer repository.RuleWriter, aliases repository.AliasStore) *PersistForwardHandler {
	return &PersistForwardHandler{forward: forward, writer: writer, aliases: aliases}
}

func (h *PersistForwardHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PersistSlugForwardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("persist forward: unmarshal: %v: %w", err, asynq.SkipRetry)
	}

	if payload.FromSlug == "" || payload.ToSlug == "" || payload.FromSlug == payload.ToSlug {
		// Validated at enqueue time; a bad payload here is not worth retrying.
		return fmt.Errorf("persist forward: invalid payload %+v: %w", payload, asynq.SkipRetry)
	}

	if target, ok, err := h.forward.Target(ctx, payload.FromSlug); err == nil && ok && target == payload.ToSlug {
		logger.Debug("persist forward: mapping already present")
		return nil
	}

	if err := h.writer.Upsert(ctx, payload.FromSlug, payload.ToSlug); err != nil {
		return fmt.Errorf("persist forward %s→%s: %w", payload.FromSlug, payload.ToSlug, err)
	}

	// The old slug may still sit in an alias cache entry pointing
	// somewhere else; flush it so the next lookup rebuilds.
	if err := h.aliases.Invalidate(ctx, payload.FromSlug); err != nil {
		logger.Warn("persist forward: alias invalidate failed", map[string]interface{}{
			"slug":  payload.FromSlug,
			"error": err.Error(),
		})
	}

	logger.Info("forward rule persisted", map[string]interface{}{
		"from":   payload.FromSlug,
		"to":     payload.ToSlug,
		"source": payload.Source,
	})
	return nil
}
