package repository

import (
	"context"
	"encoding/csv"
	"strings"

	"dat-backend/internal/infrastructure/sheets"
	"dat-backend/internal/shared/utils"
	"dat-backend/pkg/cache"
	"dat-backend/pkg/logger"
)

const (
	rosterFallbackName = "alumni-roster.csv"
	aliasKeyPrefix     = "slug:aliases:"
	aliasIndexKey      = "slug:aliases:index"
)

// csvAliasStore derives alias sets from the alumni roster: each row's
// previous-slugs cell, split and normalized. Results live in the injected
// cache with no TTL; admin actions and the scheduled refresh task flush
// them explicitly.
type csvAliasStore struct {
	loader *sheets.Loader
	cache  cache.Cache
	url    string
}

func NewCSVAliasStore(loader *sheets.Loader, c cache.Cache, url string) AliasStore {
	return &csvAliasStore{loader: loader, cache: c, url: url}
}

func (s *csvAliasStore) Aliases(ctx context.Context, canonical string) (map[string]struct{}, error) {
	canonical = utils.NormalizeSlug(canonical)
	if canonical == "" {
		return map[string]struct{}{}, nil
	}

	key := aliasKeyPrefix + canonical
	var cached []string
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return toSet(cached), nil
	}

	index, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	var aliases []string
	for alias, canon := range index {
		if canon == canonical {
			aliases = append(aliases, alias)
		}
	}

	if err := s.cache.Set(ctx, key, aliases, 0); err != nil {
		logger.Warn("alias cache set failed", map[string]interface{}{"slug": canonical, "error": err.Error()})
	}
	return toSet(aliases), nil
}

func (s *csvAliasStore) CanonicalForAlias(ctx context.Context, alias string) (string, bool, error) {
	alias = utils.NormalizeSlug(alias)
	if alias == "" {
		return "", false, nil
	}

	index, err := s.loadIndex(ctx)
	if err != nil {
		return "", false, err
	}

	canon, ok := index[alias]
	return canon, ok, nil
}

func (s *csvAliasStore) Invalidate(ctx context.Context, slug string) error {
	if slug == "" {
		return s.cache.DeletePattern(ctx, aliasKeyPrefix+"*")
	}
	return s.cache.Delete(ctx, aliasKeyPrefix+utils.NormalizeSlug(slug), aliasIndexKey)
}

// loadIndex builds (or reads back) the alias→canonical index for the
// whole roster. One index instead of per-row scans keeps reverse lookups
// a single cache hit.
func (s *csvAliasStore) loadIndex(ctx context.Context) (map[string]string, error) {
	var cached map[string]string
	if found, err := s.cache.Get(ctx, aliasIndexKey, &cached); err == nil && found {
		return cached, nil
	}

	// NoStore: the alias cache itself is the cache here, and it is
	// flushed explicitly. A TTL layer underneath would resurrect stale
	// aliases right after an admin invalidation.
	raw, err := s.loader.Load(ctx, s.url, rosterFallbackName, sheets.LoadOptions{NoStore: true})
	if err != nil {
		return nil, err
	}

	index := parseAliasIndex(string(raw))
	if err := s.cache.Set(ctx, aliasIndexKey, index, 0); err != nil {
		logger.Warn("alias index cache set failed", map[string]interface{}{"error": err.Error()})
	}
	return index, nil
}

// parseAliasIndex reads the roster CSV with a real CSV parser, since
// names and locations contain commas, and maps every alias to its
// row's slug.
// Rows without a usable slug are skipped at this boundary.
func parseAliasIndex(raw string) map[string]string {
	index := map[string]string{}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		if err != nil {
			logger.Warn("roster csv unreadable", map[string]interface{}{"error": err.Error()})
		}
		return index
	}

	slugCol, prevCol := -1, -1
	for i, h := range records[0] {
		switch normalizeHeader(h) {
		case "slug":
			slugCol = i
		case "previousslugs", "oldslugs", "aliases":
			prevCol = i
		}
	}
	if slugCol < 0 || prevCol < 0 {
		logger.Warn("roster csv missing slug/previousSlugs columns", nil)
		return index
	}

	for _, rec := range records[1:] {
		if len(rec) <= slugCol || len(rec) <= prevCol {
			continue
		}

		canonical := utils.NormalizeSlug(rec[slugCol])
		if canonical == "" {
			continue
		}

		for _, alias := range utils.SplitAliases(rec[prevCol]) {
			if alias != canonical {
				index[alias] = canonical
			}
		}
	}

	return index
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
