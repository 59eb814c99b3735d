package repository

import (
	"context"

	"dat-backend/internal/domains/alumni/model"
)

// Repository reads the roster tab and writes profile rows back through
// the sheet webhook.
type Repository interface {
	// All returns every parsed row, pending ones included.
	All(ctx context.Context) ([]model.AlumniProfile, error)
	// GetBySlug returns the row with the given canonical slug, visible
	// or not. ErrProfileNotFound when absent.
	GetBySlug(ctx context.Context, slug string) (*model.AlumniProfile, error)
	// Upsert writes a profile row keyed by slug.
	Upsert(ctx context.Context, profile model.AlumniProfile) error
}
