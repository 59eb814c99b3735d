package repository

import (
	"context"

	"dat-backend/internal/domains/feed/model"
	"dat-backend/internal/infrastructure/sheets"
)

const (
	changesFallbackName = "profile-changes.csv"
	changesTab          = "Profile-Changes"
)

// csvRepository reads the audit tab with a short soft TTL; the feed
// should pick up fresh edits within a minute.
type csvRepository struct {
	loader *sheets.Loader
	writer sheets.RowWriter
	url    string
}

func NewCSVRepository(loader *sheets.Loader, writer sheets.RowWriter, url string) Repository {
	return &csvRepository{loader: loader, writer: writer, url: url}
}

func (r *csvRepository) All(ctx context.Context) ([]model.ProfileChangeRow, error) {
	raw, err := r.loader.Load(ctx, r.url, changesFallbackName, sheets.LoadOptions{Revalidate: 60})
	if err != nil {
		return nil, model.NewFeedUnavailable(err)
	}
	return model.ParseChanges(string(raw)), nil
}

func (r *csvRepository) Append(ctx context.Context, row model.ProfileChangeRow) error {
	return r.writer.Append(ctx, changesTab, row.Row())
}

func (r *csvRepository) Upsert(ctx context.Context, row model.ProfileChangeRow) error {
	// Keyed by the id column so an undo rewrites the original row.
	return r.writer.Upsert(ctx, changesTab, 0, row.Row())
}
