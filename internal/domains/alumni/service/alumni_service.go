package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"dat-backend/internal/domains/alumni/model"
	"dat-backend/internal/domains/alumni/repository"
	"dat-backend/internal/shared/utils"
	"dat-backend/pkg/logger"
)

type alumniService struct {
	repo     repository.Repository
	recorder ChangeRecorder
	now      func() time.Time
}

// NewService builds the roster service. recorder may be nil, in which
// case edits still land but leave no audit trail.
func NewService(repo repository.Repository, recorder ChangeRecorder) Service {
	return &alumniService{repo: repo, recorder: recorder, now: time.Now}
}

func (s *alumniService) ListVisible(ctx context.Context) ([]model.ProfileView, error) {
	profiles, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]model.ProfileView, 0, len(profiles))
	for _, p := range profiles {
		if !p.Visible() {
			continue
		}
		views = append(views, p.View(now))
	}
	return views, nil
}

func (s *alumniService) GetProfile(ctx context.Context, slug string) (*model.ProfileView, error) {
	p, err := s.repo.GetBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, model.ErrProfileNotFound
	}
	view := p.View(s.now())
	return &view, nil
}

// fieldChange pairs an audit field name with its before/after values.
type fieldChange struct {
	field  string
	before string
	after  string
}

func (s *alumniService) UpdateProfile(ctx context.Context, slug string, req model.UpdateProfileRequest) (*model.AlumniProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetBySlug(ctx, utils.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}

	changes := applyUpdate(p, req)
	if len(changes) == 0 {
		return p, nil
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, *p); err != nil {
		return nil, err
	}

	// Edits are already durable in the sheet at this point; a lost audit
	// row is logged, not fatal.
	if s.recorder != nil {
		for _, ch := range changes {
			if err := s.recorder.RecordChange(ctx, p.Slug, ch.field, ch.before, ch.after); err != nil {
				logger.Warn("audit entry not recorded", map[string]interface{}{
					"slug":  p.Slug,
					"field": ch.field,
					"error": err.Error(),
				})
			}
		}
	}
	return p, nil
}

// applyUpdate mutates p in place and returns one change per field whose
// value actually moved. Setting a field to its current value is a no-op.
func applyUpdate(p *model.AlumniProfile, req model.UpdateProfileRequest) []fieldChange {
	var changes []fieldChange

	apply := func(field string, dst *string, src *string) {
		if src == nil || *src == *dst {
			return
		}
		changes = append(changes, fieldChange{field: field, before: *dst, after: *src})
		*dst = *src
	}

	apply("name", &p.Name, req.Name)
	apply("location", &p.Location, req.Location)
	apply("email", &p.Email, req.Email)
	apply("website", &p.Website, req.Website)
	apply("instagram", &p.Instagram, req.Instagram)
	apply("status", &p.Status, req.Status)
	apply("currentUpdate", &p.CurrentUpdate, req.CurrentUpdate)
	apply("storyTitle", &p.StoryTitle, req.StoryTitle)
	apply("currentHeadshotId", &p.CurrentHeadshotID, req.CurrentHeadshotID)
	apply("featuredAlbumId", &p.FeaturedAlbumID, req.FeaturedAlbumID)
	apply("featuredReelId", &p.FeaturedReelID, req.FeaturedReelID)
	apply("featuredEventId", &p.FeaturedEventID, req.FeaturedEventID)

	if req.CurrentUpdateExpires != nil {
		next := req.CurrentUpdateExpires.UTC()
		prev := ""
		if p.CurrentUpdateExpires != nil {
			prev = p.CurrentUpdateExpires.UTC().Format(time.RFC3339)
		}
		after := next.Format(time.RFC3339)
		if prev != after {
			changes = append(changes, fieldChange{field: "currentUpdateExpires", before: prev, after: after})
			p.CurrentUpdateExpires = &next
		}
	}

	return changes
}

// exportHeader is the spreadsheet column order, kept in sync with the
// roster tab layout.
var exportHeader = []string{
	"Slug", "Name", "Location", "Email", "Website", "Instagram",
	"Status", "Previous Slugs", "Current Update", "Update Expires",
	"Story Title", "Headshot", "Featured Album", "Featured Reel", "Featured Event",
}

func (s *alumniService) ExportRoster(ctx context.Context) (*excelize.File, error) {
	profiles, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Alumni"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("export header: %w", err)
		}
	}
	for r, p := range profiles {
		for c, v := range p.Row() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("export row %d: %w", r+1, err)
			}
		}
	}
	return f, nil
}
