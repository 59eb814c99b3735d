package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"dat-backend/internal/domains/alumni/model"
)

// Service exposes the roster: public projections plus the admin edit and
// export surface.
type Service interface {
	// ListVisible returns every live profile as its public projection.
	ListVisible(ctx context.Context) ([]model.ProfileView, error)

	// GetProfile returns the public projection for a live profile, or
	// ErrProfileNotFound. Pending profiles are indistinguishable from
	// absent ones.
	GetProfile(ctx context.Context, slug string) (*model.ProfileView, error)

	// UpdateProfile applies an admin edit, writes the row back to the
	// sheet, and records one audit entry per changed field.
	UpdateProfile(ctx context.Context, slug string, req model.UpdateProfileRequest) (*model.AlumniProfile, error)

	// ExportRoster renders the full roster, pending rows included, as a
	// spreadsheet for offline review.
	ExportRoster(ctx context.Context) (*excelize.File, error)
}

// ChangeRecorder receives one audit entry per field an admin edit
// touched. The feed domain implements it.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, alumniSlug, field, before, after string) error
}
