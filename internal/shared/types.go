package shared

// Asynq task types.
const (
	TypePersistSlugForward = "slug:persist_forward"
	TypeRefreshSlugAliases = "slug:refresh_aliases"
	TypeSnapshotSheets     = "sheets:snapshot"
)

// Queues. Slug persistence rides its own queue so a slow sheet append
// cannot starve the maintenance jobs.
const (
	QueueSlugs       = "slugs"
	QueueMaintenance = "maintenance"
)

// PersistSlugForwardPayload is the task payload enqueued by the redirect
// middleware and the auto-canon endpoint. The worker upserts the rule
// into the Profile-Slugs tab keyed by FromSlug, so re-delivery of the
// same task is harmless.
type PersistSlugForwardPayload struct {
	FromSlug string `json:"fromSlug"`
	ToSlug   string `json:"toSlug"`
	Source   string `json:"source"` // "middleware" or "admin"
}

// RefreshSlugAliasesPayload flushes the alias cache so the next lookups
// rebuild from the roster. An empty Slug flushes every entry.
type RefreshSlugAliasesPayload struct {
	Slug string `json:"slug,omitempty"`
}

// SnapshotSheetsPayload mirrors the configured CSV tabs into the fallback
// directory (and the snapshot bucket when configured).
type SnapshotSheetsPayload struct{}
