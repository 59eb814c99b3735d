package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dat-backend/internal/domains/slug/model"
	"dat-backend/internal/shared/middleware"
	"dat-backend/internal/shared/utils"
)

type fakeForwardService struct {
	targets     map[string]string
	recorded    [][3]string
	invalidated []string
}

func (f *fakeForwardService) Lookup(ctx context.Context, slug string) (*string, error) {
	if t, ok := f.targets[utils.NormalizeSlug(slug)]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeForwardService) RecordForward(ctx context.Context, old, next, source string) error {
	rule := model.ForwardRule{FromSlug: utils.NormalizeSlug(old), ToSlug: utils.NormalizeSlug(next)}
	if err := rule.Validate(); err != nil {
		return err
	}
	f.recorded = append(f.recorded, [3]string{old, next, source})
	return nil
}

func (f *fakeForwardService) AliasDiagnostics(ctx context.Context, slug string) (model.AliasDiagnostics, error) {
	return model.AliasDiagnostics{AliasCount: 1, Aliases: []string{"old-" + slug}}, nil
}

func (f *fakeForwardService) InvalidateAliases(ctx context.Context, slug string) error {
	f.invalidated = append(f.invalidated, slug)
	return nil
}

func (f *fakeForwardService) DebugDump(ctx context.Context, slug string) (model.ForwardDebugDump, error) {
	return model.ForwardDebugDump{Slug: slug, FetchOK: true}, nil
}

func newAdminRouter(svc *fakeForwardService, autoCanon bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(svc, autoCanon)

	router := gin.New()
	admin := router.Group("/api/admin", middleware.AdminGate("X-Admin-Key", "sekret", nil))
	{
		admin.GET("/forward-slug", h.ForwardSlug)
		admin.GET("/auto-canon", h.AutoCanon)
		admin.GET("/diag-aliases", h.DiagAliases)
		admin.POST("/invalidate-aliases", h.InvalidateAliases)
	}
	return router
}

func doAdmin(router *gin.Engine, method, target, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAdminGate_RejectsWithoutKey(t *testing.T) {
	router := newAdminRouter(&fakeForwardService{}, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/forward-slug?slug=x", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAdmin(router, http.MethodGet, "/api/admin/forward-slug?slug=x", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestForwardSlug(t *testing.T) {
	svc := &fakeForwardService{targets: map[string]string{"old-name": "new-name"}}
	router := newAdminRouter(svc, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/forward-slug?slug=old-name", "sekret")
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ForwardLookupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Target)
	assert.Equal(t, "new-name", *resp.Target)

	// Canonical slug → null target.
	w = doAdmin(router, http.MethodGet, "/api/admin/forward-slug?slug=new-name", "sekret")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Target)
}

func TestForwardSlug_MissingParam(t *testing.T) {
	router := newAdminRouter(&fakeForwardService{}, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/forward-slug", "sekret")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutoCanon(t *testing.T) {
	svc := &fakeForwardService{}
	router := newAdminRouter(svc, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/auto-canon?old=a&next=b", "sekret")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.recorded, 1)
	assert.Equal(t, "admin", svc.recorded[0][2])
}

func TestAutoCanon_DisabledByFlag(t *testing.T) {
	router := newAdminRouter(&fakeForwardService{}, false)

	w := doAdmin(router, http.MethodGet, "/api/admin/auto-canon?old=a&next=b", "sekret")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAutoCanon_BadInput(t *testing.T) {
	svc := &fakeForwardService{}
	router := newAdminRouter(svc, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/auto-canon?old=a", "sekret")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doAdmin(router, http.MethodGet, "/api/admin/auto-canon?old=same&next=same", "sekret")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.recorded)
}

func TestDiagAliases(t *testing.T) {
	router := newAdminRouter(&fakeForwardService{}, true)

	w := doAdmin(router, http.MethodGet, "/api/admin/diag-aliases?slug=jane-doe", "sekret")
	require.Equal(t, http.StatusOK, w.Code)

	var diag model.AliasDiagnostics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &diag))
	assert.Equal(t, 1, diag.AliasCount)
	assert.Equal(t, []string{"old-jane-doe"}, diag.Aliases)
}

func TestInvalidateAliases(t *testing.T) {
	svc := &fakeForwardService{}
	router := newAdminRouter(svc, true)

	w := doAdmin(router, http.MethodPost, "/api/admin/invalidate-aliases?slug=jane-doe", "sekret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"jane-doe"}, svc.invalidated)
}
