package model

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"dat-backend/pkg/logger"
)

// ProfileChangeRow is one row of the audit tab. Rows are append-only:
// undoing a change flips IsUndone rather than deleting the row, so the
// visible feed is always a projection over full history.
type ProfileChangeRow struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"ts"`
	AlumniSlug string    `json:"alumniSlug"`
	Field      string    `json:"field"`
	Before     string    `json:"before"`
	After      string    `json:"after"`
	IsUndone   bool      `json:"isUndone"`
}

func (r ProfileChangeRow) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required, is.UUIDv4),
		validation.Field(&r.AlumniSlug, validation.Required),
		validation.Field(&r.Field, validation.Required),
		validation.Field(&r.Timestamp, validation.Required),
	)
}

// changeColumns is the write-side column order of the audit tab.
var changeColumns = []string{
	"id", "ts", "alumniSlug", "field", "before", "after", "isUndone",
}

// Row serializes the change in audit column order for webhook writes.
func (r ProfileChangeRow) Row() []string {
	return []string{
		r.ID,
		r.Timestamp.UTC().Format(time.RFC3339),
		r.AlumniSlug,
		r.Field,
		r.Before,
		r.After,
		strconv.FormatBool(r.IsUndone),
	}
}

// ParseChanges reads the audit CSV into typed rows. Malformed rows are
// logged and skipped.
func ParseChanges(raw string) []ProfileChangeRow {
	cr := csv.NewReader(strings.NewReader(raw))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil || len(records) < 1 {
		if err != nil {
			logger.Warn("audit csv unreadable", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rows := make([]ProfileChangeRow, 0, len(records)-1)
	for n, rec := range records[1:] {
		row := ProfileChangeRow{
			ID:         cell(rec, "id"),
			AlumniSlug: cell(rec, "alumnislug"),
			Field:      cell(rec, "field"),
			Before:     cell(rec, "before"),
			After:      cell(rec, "after"),
		}
		if raw := cell(rec, "ts"); raw != "" {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				row.Timestamp = ts
			}
		}
		if undone := cell(rec, "isundone"); undone != "" {
			row.IsUndone, _ = strconv.ParseBool(undone)
		}
		if err := row.Validate(); err != nil {
			logger.Warn("audit row rejected", map[string]interface{}{
				"row": n + 2, "error": err.Error(),
			})
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
