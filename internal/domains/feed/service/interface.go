package service

import (
	"context"

	"dat-backend/internal/domains/feed/model"
)

// Service exposes the community feed over the append-only audit log.
type Service interface {
	// Feed returns visible audit rows, newest first. Undone rows stay in
	// the sheet but never appear here.
	Feed(ctx context.Context) ([]model.ProfileChangeRow, error)

	// RecordChange appends one audit row for an applied profile edit.
	RecordChange(ctx context.Context, alumniSlug, field, before, after string) error

	// Undo marks an audit row undone. Undoing an already-undone row is a
	// no-op; an unknown id is ErrChangeNotFound.
	Undo(ctx context.Context, id string) (*model.ProfileChangeRow, error)
}
