package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ForwardRule is one row of the Profile-Slugs tab: a persisted old→new
// slug mapping used to redirect stale links. FromSlug != ToSlug is
// enforced at write time; read paths do not re-validate.
type ForwardRule struct {
	FromSlug  string    `json:"fromSlug"`
	ToSlug    string    `json:"toSlug"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r ForwardRule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FromSlug,
			validation.Required.Error("fromSlug is required"),
			validation.Match(slugPattern).Error("fromSlug must be lowercase-kebab"),
		),
		validation.Field(&r.ToSlug,
			validation.Required.Error("toSlug is required"),
			validation.Match(slugPattern).Error("toSlug must be lowercase-kebab"),
			validation.By(func(interface{}) error {
				if r.FromSlug == r.ToSlug {
					return ErrSelfForward
				}
				return nil
			}),
		),
	)
}

// AutoCanonRequest is the query input of the auto-canon endpoint.
type AutoCanonRequest struct {
	Old  string `form:"old"`
	Next string `form:"next"`
}

func (r AutoCanonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Old, validation.Required.Error("old is required")),
		validation.Field(&r.Next, validation.Required.Error("next is required")),
	)
}

// ForwardLookupResponse is the wire shape of the forward lookup endpoint.
// The redirect middleware parses exactly this.
type ForwardLookupResponse struct {
	Target *string `json:"target"`
}

// AliasDiagnostics is the wire shape of the diag-aliases endpoint.
type AliasDiagnostics struct {
	AliasCount int      `json:"aliasCount"`
	Aliases    []string `json:"aliases"`
}

// ForwardDebugDump is the wire shape of the debug probe endpoint.
type ForwardDebugDump struct {
	Slug       string  `json:"slug"`
	FetchOK    bool    `json:"fetchOk"`
	FetchError string  `json:"fetchError,omitempty"`
	CSVBytes   int     `json:"csvBytes"`
	RowCount   int     `json:"rowCount"`
	MapSize    int     `json:"mapSize"`
	Target     *string `json:"target"`
}
