package main

import (
	"github.com/hibiken/asynq"

	slugJob "dat-backend/internal/domains/slug/job"
	"dat-backend/internal/infrastructure/sheets"
	sheetsJob "dat-backend/internal/infrastructure/sheets/job"
	"dat-backend/internal/shared"
	"dat-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	persistForward *slugJob.PersistForwardHandler
	refreshAliases *slugJob.RefreshAliasesHandler
	snapshotSheets *sheetsJob.SnapshotHandler
}

// initializeHandlers creates all job handlers with their dependencies.
func initializeHandlers(c *container.Container) *HandlerRegistry {
	sheetsCfg := c.Config.Sheets
	targets := []sheetsJob.SnapshotTarget{
		{URL: sheetsCfg.SlugsURL(sheets.ExportURL), FallbackName: "profile-slugs.csv"},
		{URL: sheetsCfg.RosterURL(sheets.ExportURL), FallbackName: "alumni-roster.csv"},
		{URL: sheetsCfg.FeedURL(sheets.ExportURL), FallbackName: "profile-changes.csv"},
	}

	return &HandlerRegistry{
		persistForward: slugJob.NewPersistForwardHandler(c.ForwardMap, c.RuleWriter, c.AliasStore),
		refreshAliases: slugJob.NewRefreshAliasesHandler(c.AliasStore),
		snapshotSheets: sheetsJob.NewSnapshotHandler(c.Loader, c.SnapshotStore, targets),
	}
}

// RegisterHandlers registers all handlers with the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePersistSlugForward, h.persistForward.ProcessTask)
	mux.HandleFunc(shared.TypeRefreshSlugAliases, h.refreshAliases.ProcessTask)
	mux.HandleFunc(shared.TypeSnapshotSheets, h.snapshotSheets.ProcessTask)
}
