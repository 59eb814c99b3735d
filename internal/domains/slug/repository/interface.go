package repository

import (
	"context"
)

// ForwardMap reads the old→new slug rules from the Profile-Slugs tab.
type ForwardMap interface {
	// Load returns the whole map, pre-lowercased. Duplicate fromSlug
	// rows collapse to the last row.
	Load(ctx context.Context) (map[string]string, error)
	// Target returns the mapped slug for one input, if any.
	Target(ctx context.Context, slug string) (string, bool, error)
	// Probe fetches the raw CSV and reports what the parser saw;
	// backs the debug endpoint.
	Probe(ctx context.Context) (Probe, error)
}

// Probe describes one raw load of the forward-map CSV.
type Probe struct {
	FetchOK    bool
	FetchError string
	CSVBytes   int
	RowCount   int
	MapSize    int
}

// AliasStore answers alias questions against the alumni roster.
type AliasStore interface {
	// Aliases returns the known alias slugs for a canonical slug.
	// Unknown canonical → empty set, nil error.
	Aliases(ctx context.Context, canonical string) (map[string]struct{}, error)
	// CanonicalForAlias finds the row owning alias, if any.
	CanonicalForAlias(ctx context.Context, alias string) (string, bool, error)
	// Invalidate flushes the alias cache for one slug, or everything
	// when slug is empty.
	Invalidate(ctx context.Context, slug string) error
}

// RuleWriter persists forward rules into the sheet.
type RuleWriter interface {
	// Upsert writes the rule keyed by fromSlug. Idempotent.
	Upsert(ctx context.Context, fromSlug, toSlug string) error
}
