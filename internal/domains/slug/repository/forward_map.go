package repository

import (
	"context"
	"strings"
	"time"

	"dat-backend/internal/infrastructure/sheets"
	"dat-backend/internal/shared/utils"
	"dat-backend/pkg/logger"
)

const forwardFallbackName = "profile-slugs.csv"

// csvForwardMap reads the Profile-Slugs tab. Loads are NoStore: a stale
// redirect target is worse than the extra fetch, so no read cache here.
//
// Rows are split on bare commas. Slugs are constrained to [a-z0-9-], so a
// comma can never appear in valid data; anything that still fails the
// schema check is logged and skipped.
type csvForwardMap struct {
	loader *sheets.Loader
	url    string
}

func NewCSVForwardMap(loader *sheets.Loader, url string) ForwardMap {
	return &csvForwardMap{loader: loader, url: url}
}

func (m *csvForwardMap) Load(ctx context.Context) (map[string]string, error) {
	raw, err := m.loader.Load(ctx, m.url, forwardFallbackName, sheets.LoadOptions{NoStore: true})
	if err != nil {
		return nil, err
	}

	fwd, _ := parseForwardCSV(string(raw))
	return fwd, nil
}

func (m *csvForwardMap) Target(ctx context.Context, slug string) (string, bool, error) {
	fwd, err := m.Load(ctx)
	if err != nil {
		return "", false, err
	}

	target, ok := fwd[strings.ToLower(strings.TrimSpace(slug))]
	return target, ok, nil
}

func (m *csvForwardMap) Probe(ctx context.Context) (Probe, error) {
	raw, err := m.loader.Load(ctx, m.url, forwardFallbackName, sheets.LoadOptions{NoStore: true, CacheBust: true})
	if err != nil {
		return Probe{FetchOK: false, FetchError: err.Error()}, err
	}

	fwd, rows := parseForwardCSV(string(raw))
	return Probe{
		FetchOK:  true,
		CSVBytes: len(raw),
		RowCount: rows,
		MapSize:  len(fwd),
	}, nil
}

// parseForwardCSV returns the forward map plus the number of data rows
// seen. Duplicate fromSlug rows: last row wins, matching the append-only
// write history (the newest rename is the live one).
func parseForwardCSV(raw string) (map[string]string, int) {
	fwd := map[string]string{}
	rows := 0

	for i, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, ",")
		if i == 0 && strings.EqualFold(strings.TrimSpace(unquote(cols[0])), "fromSlug") {
			continue // header row
		}
		rows++

		if len(cols) < 2 {
			logger.Warn("forward map: malformed row skipped", map[string]interface{}{"line": i + 1})
			continue
		}

		from := utils.NormalizeSlug(unquote(cols[0]))
		to := utils.NormalizeSlug(unquote(cols[1]))
		if from == "" || to == "" {
			logger.Warn("forward map: empty slug skipped", map[string]interface{}{"line": i + 1})
			continue
		}

		fwd[from] = to
	}

	return fwd, rows
}

// unquote strips the quotes the gviz CSV export wraps every cell in.
func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// webhookRuleWriter persists rules through the sheet webhook, keyed by
// fromSlug so re-delivered tasks cannot pile up duplicate rows.
type webhookRuleWriter struct {
	writer sheets.RowWriter
	tab    string
}

func NewRuleWriter(writer sheets.RowWriter, tab string) RuleWriter {
	return &webhookRuleWriter{writer: writer, tab: tab}
}

func (w *webhookRuleWriter) Upsert(ctx context.Context, fromSlug, toSlug string) error {
	row := []string{fromSlug, toSlug, time.Now().UTC().Format(time.RFC3339)}
	return w.writer.Upsert(ctx, w.tab, 0, row)
}
