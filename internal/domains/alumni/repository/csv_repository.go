package repository

import (
	"context"

	"dat-backend/internal/domains/alumni/model"
	"dat-backend/internal/infrastructure/sheets"
	"dat-backend/internal/shared/utils"
)

const (
	rosterFallbackName = "alumni-roster.csv"
	rosterTab          = "Alumni"
)

// csvRepository reads the roster with a soft TTL; directory pages
// tolerate a few minutes of staleness, unlike the forward map.
type csvRepository struct {
	loader *sheets.Loader
	writer sheets.RowWriter
	url    string
}

func NewCSVRepository(loader *sheets.Loader, writer sheets.RowWriter, url string) Repository {
	return &csvRepository{loader: loader, writer: writer, url: url}
}

func (r *csvRepository) All(ctx context.Context) ([]model.AlumniProfile, error) {
	raw, err := r.loader.Load(ctx, r.url, rosterFallbackName, sheets.LoadOptions{Revalidate: 300})
	if err != nil {
		return nil, model.NewRosterUnavailable(err)
	}
	return model.ParseRoster(string(raw)), nil
}

func (r *csvRepository) GetBySlug(ctx context.Context, slug string) (*model.AlumniProfile, error) {
	profiles, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	slug = utils.NormalizeSlug(slug)
	for i := range profiles {
		if profiles[i].Slug == slug {
			return &profiles[i], nil
		}
	}
	return nil, model.ErrProfileNotFound
}

func (r *csvRepository) Upsert(ctx context.Context, profile model.AlumniProfile) error {
	return r.writer.Upsert(ctx, rosterTab, 0, profile.Row())
}
