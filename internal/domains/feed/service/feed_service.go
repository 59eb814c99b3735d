package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"dat-backend/internal/domains/feed/model"
	"dat-backend/internal/domains/feed/repository"
)

type feedService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewService(repo repository.Repository) Service {
	return &feedService{repo: repo, now: time.Now}
}

func (s *feedService) Feed(ctx context.Context) ([]model.ProfileChangeRow, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]model.ProfileChangeRow, 0, len(rows))
	for _, row := range rows {
		if row.IsUndone {
			continue
		}
		visible = append(visible, row)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Timestamp.After(visible[j].Timestamp)
	})
	return visible, nil
}

func (s *feedService) RecordChange(ctx context.Context, alumniSlug, field, before, after string) error {
	row := model.ProfileChangeRow{
		ID:         uuid.NewString(),
		Timestamp:  s.now().UTC(),
		AlumniSlug: alumniSlug,
		Field:      field,
		Before:     before,
		After:      after,
	}
	if err := row.Validate(); err != nil {
		return err
	}
	return s.repo.Append(ctx, row)
}

func (s *feedService) Undo(ctx context.Context, id string) (*model.ProfileChangeRow, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row.ID != id {
			continue
		}
		if row.IsUndone {
			return &row, nil
		}
		row.IsUndone = true
		if err := s.repo.Upsert(ctx, row); err != nil {
			return nil, err
		}
		return &row, nil
	}
	return nil, model.ErrChangeNotFound
}
