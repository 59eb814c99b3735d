package repository

import (
	"context"

	"dat-backend/internal/domains/feed/model"
)

// Repository reads the audit tab and writes change rows back through the
// sheet webhook.
type Repository interface {
	// All returns every parsed audit row, undone ones included.
	All(ctx context.Context) ([]model.ProfileChangeRow, error)
	// Append adds a new audit row.
	Append(ctx context.Context, row model.ProfileChangeRow) error
	// Upsert rewrites an audit row keyed by id.
	Upsert(ctx context.Context, row model.ProfileChangeRow) error
}
