package model

import (
	"encoding/csv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"dat-backend/internal/shared/utils"
	"dat-backend/pkg/logger"
)

// Profile statuses. Pending rows exist in the sheet but are filtered out
// of every visible query; that filter is the soft delete.
const (
	StatusPending = "pending"
	StatusLive    = "live"
)

// AlumniProfile is one row of the roster tab, parsed through the schema
// boundary. All cells arrive as strings from the CSV export; this type is
// the only place they are coerced.
type AlumniProfile struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`

	Email     string `json:"email,omitempty"`
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	Status        string   `json:"status"`
	PreviousSlugs []string `json:"previousSlugs,omitempty"`

	CurrentUpdate        string     `json:"currentUpdate,omitempty"`
	CurrentUpdateExpires *time.Time `json:"currentUpdateExpires,omitempty"`

	StoryTitle string `json:"storyTitle,omitempty"`

	CurrentHeadshotID string `json:"currentHeadshotId,omitempty"`
	FeaturedAlbumID   string `json:"featuredAlbumId,omitempty"`
	FeaturedReelID    string `json:"featuredReelId,omitempty"`
	FeaturedEventID   string `json:"featuredEventId,omitempty"`
}

func (p AlumniProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Slug,
			validation.Required.Error("slug is required"),
			validation.By(func(interface{}) error {
				if !utils.IsValidSlug(p.Slug) {
					return validation.NewError("slug_invalid", "slug must be lowercase-kebab")
				}
				return nil
			}),
		),
		validation.Field(&p.Name, validation.Required.Error("name is required")),
		validation.Field(&p.Email, validation.When(p.Email != "", is.Email)),
		validation.Field(&p.Status, validation.In(StatusPending, StatusLive)),
	)
}

// Visible reports whether the profile shows up in public queries.
func (p AlumniProfile) Visible() bool {
	return p.Status == StatusLive
}

// EffectiveUpdate returns the current-update text, blanked once expired.
// The sheet keeps the stale text; only the projection hides it.
func (p AlumniProfile) EffectiveUpdate(now time.Time) string {
	if p.CurrentUpdateExpires != nil && now.After(*p.CurrentUpdateExpires) {
		return ""
	}
	return p.CurrentUpdate
}

// rosterColumns is the write-side column order of the roster tab.
var rosterColumns = []string{
	"slug", "name", "location", "email", "website", "instagram",
	"status", "previousSlugs", "currentUpdate", "currentUpdateExpires",
	"storyTitle", "currentHeadshotId", "featuredAlbumId",
	"featuredReelId", "featuredEventId",
}

// Row serializes the profile in roster column order for webhook writes.
func (p AlumniProfile) Row() []string {
	expires := ""
	if p.CurrentUpdateExpires != nil {
		expires = p.CurrentUpdateExpires.UTC().Format(time.RFC3339)
	}
	return []string{
		p.Slug, p.Name, p.Location, p.Email, p.Website, p.Instagram,
		p.Status, strings.Join(p.PreviousSlugs, ", "), p.CurrentUpdate, expires,
		p.StoryTitle, p.CurrentHeadshotID, p.FeaturedAlbumID,
		p.FeaturedReelID, p.FeaturedEventID,
	}
}

// ParseRoster reads the roster CSV into typed profiles. Malformed rows
// are logged and skipped here, never half-coerced downstream.
func ParseRoster(raw string) []AlumniProfile {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil || len(records) < 1 {
		if err != nil {
			logger.Warn("roster csv unreadable", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[normalizeHeader(h)] = i
	}

	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	profiles := make([]AlumniProfile, 0, len(records)-1)
	for n, rec := range records[1:] {
		p := AlumniProfile{
			Slug:              utils.NormalizeSlug(cell(rec, "slug")),
			Name:              cell(rec, "name"),
			Location:          cell(rec, "location"),
			Email:             cell(rec, "email"),
			Website:           cell(rec, "website"),
			Instagram:         cell(rec, "instagram"),
			Status:            parseStatus(cell(rec, "status")),
			PreviousSlugs:     utils.SplitAliases(cell(rec, "previousslugs")),
			CurrentUpdate:     cell(rec, "currentupdate"),
			StoryTitle:        cell(rec, "storytitle"),
			CurrentHeadshotID: cell(rec, "currentheadshotid"),
			FeaturedAlbumID:   cell(rec, "featuredalbumid"),
			FeaturedReelID:    cell(rec, "featuredreelid"),
			FeaturedEventID:   cell(rec, "featuredeventid"),
		}

		if raw := cell(rec, "currentupdateexpires"); raw != "" {
			if ts, err := parseSheetTime(raw); err == nil {
				p.CurrentUpdateExpires = &ts
			} else {
				logger.Warn("roster row: bad expiry skipped", map[string]interface{}{
					"row": n + 2, "value": raw,
				})
			}
		}

		if err := p.Validate(); err != nil {
			logger.Warn("roster row rejected", map[string]interface{}{
				"row": n + 2, "error": err.Error(),
			})
			continue
		}
		profiles = append(profiles, p)
	}

	return profiles
}

func parseStatus(s string) string {
	switch strings.ToLower(s) {
	case StatusLive:
		return StatusLive
	default:
		// Anything unrecognized stays invisible.
		return StatusPending
	}
}

// parseSheetTime accepts the formats that show up in sheet cells.
func parseSheetTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: s}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}
