package service

import (
	"context"

	"dat-backend/internal/domains/slug/model"
)

// Resolver computes the canonical slug a request should land on.
type Resolver interface {
	// Resolve normalizes input and follows forward rules and alias
	// sets to a fixed point. Deterministic and idempotent:
	// Resolve(Resolve(s)) == Resolve(s).
	Resolve(ctx context.Context, input string) (string, error)
}

// ForwardService is the admin/debug surface over the forward map.
type ForwardService interface {
	// Lookup returns the canonical target for slug, or nil when the
	// slug already is canonical. This is what the redirect middleware
	// and the forward-slug endpoint consume.
	Lookup(ctx context.Context, slug string) (*string, error)

	// RecordForward validates old→next and enqueues the persistence
	// task. source tags where the rule came from ("middleware",
	// "admin").
	RecordForward(ctx context.Context, old, next, source string) error

	// AliasDiagnostics reports the alias set of a canonical slug.
	AliasDiagnostics(ctx context.Context, slug string) (model.AliasDiagnostics, error)

	// InvalidateAliases flushes the alias cache (everything when slug
	// is empty).
	InvalidateAliases(ctx context.Context, slug string) error

	// DebugDump probes the raw forward-map CSV and resolves slug.
	DebugDump(ctx context.Context, slug string) (model.ForwardDebugDump, error)
}
