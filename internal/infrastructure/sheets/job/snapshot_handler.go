package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"dat-backend/internal/infrastructure/sheets"
	"dat-backend/internal/infrastructure/storage"
	"dat-backend/internal/shared"
	"dat-backend/pkg/logger"
)

// SnapshotTarget names one tab to snapshot: its CSV URL and the
// fallback filename the loader reads when the network is down.
type SnapshotTarget struct {
	URL          string
	FallbackName string
}

// SnapshotHandler refetches every configured tab with cache busting.
// The loader persists each fetch to the fallback directory, so a
// successful run refreshes the offline copies; when object storage is
// configured the bytes are mirrored there too.
type SnapshotHandler struct {
	loader  *sheets.Loader
	store   *storage.SnapshotStore // nil when MinIO is disabled
	targets []SnapshotTarget
}

func NewSnapshotHandler(loader *sheets.Loader, store *storage.SnapshotStore, targets []SnapshotTarget) *SnapshotHandler {
	return &SnapshotHandler{loader: loader, store: store, targets: targets}
}

func (h *SnapshotHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SnapshotSheetsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("sheet snapshot: bad payload", map[string]interface{}{"error": err.Error()})
		return asynq.SkipRetry
	}

	var failed int
	for _, target := range h.targets {
		if target.URL == "" {
			continue
		}
		raw, err := h.loader.Load(ctx, target.URL, target.FallbackName, sheets.LoadOptions{
			NoStore:   true,
			CacheBust: true,
		})
		if err != nil {
			failed++
			logger.Warn("sheet snapshot: fetch failed", map[string]interface{}{
				"tab": target.FallbackName, "error": err.Error(),
			})
			continue
		}
		if h.store != nil {
			if err := h.store.Put(ctx, target.FallbackName, raw); err != nil {
				logger.Warn("sheet snapshot: object store write failed", map[string]interface{}{
					"tab": target.FallbackName, "error": err.Error(),
				})
			}
		}
	}

	if failed == len(h.targets) && len(h.targets) > 0 {
		return fmt.Errorf("sheet snapshot: all %d tabs failed", failed)
	}
	logger.Info("sheet snapshot complete", map[string]interface{}{
		"tabs": len(h.targets), "failed": failed,
	})
	return nil
}
