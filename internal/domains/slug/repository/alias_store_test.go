package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "dat-backend/internal/infrastructure/cache"
	"dat-backend/internal/infrastructure/sheets"
)

const rosterCSV = `slug,name,location,previousSlugs,status
jane-doe,"Doe, Jane","Quito, Ecuador","jane-smith; jane-d",live
maria-nunez,María Núñez,Madrid,"MARÍA-NÚÑEZ-2019,maria-n",live
no-aliases,Nobody,,, pending
`

func newAliasStoreForTest(t *testing.T, body string) (AliasStore, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	loader := sheets.NewLoader(infracache.NewMemoryCache(), t.TempDir())
	return NewCSVAliasStore(loader, infracache.NewMemoryCache(), srv.URL), &hits
}

func TestAliasStore_Aliases(t *testing.T) {
	store, _ := newAliasStoreForTest(t, rosterCSV)
	ctx := context.Background()

	aliases, err := store.Aliases(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"jane-smith": {}, "jane-d": {}}, aliases)

	// Diacritics in the sheet fold to canonical form.
	aliases, err = store.Aliases(ctx, "maria-nunez")
	require.NoError(t, err)
	assert.Contains(t, aliases, "maria-nunez-2019")
	assert.Contains(t, aliases, "maria-n")
}

func TestAliasStore_UnknownCanonicalIsEmptyNotError(t *testing.T) {
	store, _ := newAliasStoreForTest(t, rosterCSV)

	aliases, err := store.Aliases(context.Background(), "nobody-here")
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestAliasStore_CanonicalForAlias(t *testing.T) {
	store, _ := newAliasStoreForTest(t, rosterCSV)
	ctx := context.Background()

	canon, ok, err := store.CanonicalForAlias(ctx, "jane-smith")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "jane-doe", canon)

	_, ok, err = store.CanonicalForAlias(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAliasStore_CachesUntilInvalidated(t *testing.T) {
	store, hits := newAliasStoreForTest(t, rosterCSV)
	ctx := context.Background()

	_, err := store.Aliases(ctx, "jane-doe")
	require.NoError(t, err)
	_, _, err = store.CanonicalForAlias(ctx, "jane-smith")
	require.NoError(t, err)

	fetched := hits.Load()
	assert.Equal(t, int32(1), fetched, "index is built once and cached")

	require.NoError(t, store.Invalidate(ctx, ""))

	_, err = store.Aliases(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Greater(t, hits.Load(), fetched, "flush forces a rebuild")
}

func TestParseAliasIndex_MalformedRows(t *testing.T) {
	index := parseAliasIndex("slug,previousSlugs\n,orphan-alias\nok-slug,former-name\n")
	assert.Equal(t, map[string]string{"former-name": "ok-slug"}, index)

	// Missing required columns yields an empty index, not a panic.
	assert.Empty(t, parseAliasIndex("name,location\nJane,Quito\n"))
	assert.Empty(t, parseAliasIndex(""))
}
