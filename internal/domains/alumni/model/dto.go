package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UpdateProfileRequest carries the admin edit surface. Nil pointer =
// field untouched; empty string = field cleared. Each applied change
// lands in the audit log.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty"`
	Location  *string `json:"location,omitempty"`
	Email     *string `json:"email,omitempty"`
	Website   *string `json:"website,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Status    *string `json:"status,omitempty"`

	CurrentUpdate        *string    `json:"currentUpdate,omitempty"`
	CurrentUpdateExpires *time.Time `json:"currentUpdateExpires,omitempty"`

	StoryTitle *string `json:"storyTitle,omitempty"`

	CurrentHeadshotID *string `json:"currentHeadshotId,omitempty"`
	FeaturedAlbumID   *string `json:"featuredAlbumId,omitempty"`
	FeaturedReelID    *string `json:"featuredReelId,omitempty"`
	FeaturedEventID   *string `json:"featuredEventId,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.When(r.Name != nil,
			validation.By(func(interface{}) error {
				if *r.Name == "" {
					return validation.NewError("name_empty", "name cannot be cleared")
				}
				return nil
			}),
		)),
		validation.Field(&r.Email, validation.When(r.Email != nil && *r.Email != "",
			validation.By(func(interface{}) error {
				return is.Email.Validate(*r.Email)
			}),
		)),
		validation.Field(&r.Status, validation.When(r.Status != nil,
			validation.By(func(interface{}) error {
				if *r.Status != StatusPending && *r.Status != StatusLive {
					return validation.NewError("status_invalid", "status must be pending or live")
				}
				return nil
			}),
		)),
	)
}

// ProfileView is the public projection: pending rows never reach it and
// expired current updates are blanked.
type ProfileView struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`

	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	CurrentUpdate string `json:"currentUpdate,omitempty"`
	StoryTitle    string `json:"storyTitle,omitempty"`

	CurrentHeadshotID string `json:"currentHeadshotId,omitempty"`
	FeaturedAlbumID   string `json:"featuredAlbumId,omitempty"`
	FeaturedReelID    string `json:"featuredReelId,omitempty"`
	FeaturedEventID   string `json:"featuredEventId,omitempty"`
}

// View projects a profile for public consumption at a given instant.
func (p AlumniProfile) View(now time.Time) ProfileView {
	return ProfileView{
		Slug:              p.Slug,
		Name:              p.Name,
		Location:          p.Location,
		Website:           p.Website,
		Instagram:         p.Instagram,
		CurrentUpdate:     p.EffectiveUpdate(now),
		StoryTitle:        p.StoryTitle,
		CurrentHeadshotID: p.CurrentHeadshotID,
		FeaturedAlbumID:   p.FeaturedAlbumID,
		FeaturedReelID:    p.FeaturedReelID,
		FeaturedEventID:   p.FeaturedEventID,
	}
}
