package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dat-backend/internal/domains/feed/model"
)

type fakeFeedService struct {
	entries []model.ProfileChangeRow
	err     error

	undoneID string
}

func (f *fakeFeedService) Feed(ctx context.Context) ([]model.ProfileChangeRow, error) {
	return f.entries, f.err
}

func (f *fakeFeedService) RecordChange(ctx context.Context, slug, field, before, after string) error {
	return f.err
}

func (f *fakeFeedService) Undo(ctx context.Context, id string) (*model.ProfileChangeRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.undoneID = id
	return &model.ProfileChangeRow{ID: id, IsUndone: true}, nil
}

func newRouter(svc *fakeFeedService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.GET("/api/feed", h.Feed)
	r.POST("/api/admin/feed/:id/undo", h.Undo)
	return r
}

func TestFeedReturnsEntries(t *testing.T) {
	svc := &fakeFeedService{entries: []model.ProfileChangeRow{
		{ID: "5a0b49c2-3f6f-4f7e-9a4e-222222222222", Timestamp: time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC),
			AlumniSlug: "old-timer", Field: "currentUpdate", After: "New show"},
	}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count   int                      `json:"count"`
		Entries []model.ProfileChangeRow `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "old-timer", body.Entries[0].AlumniSlug)
}

func TestFeedOutageIs502(t *testing.T) {
	svc := &fakeFeedService{err: model.NewFeedUnavailable(context.DeadlineExceeded)}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUndoMarksEntry(t *testing.T) {
	svc := &fakeFeedService{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/feed/5a0b49c2-3f6f-4f7e-9a4e-111111111111/undo", nil)
	newRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5a0b49c2-3f6f-4f7e-9a4e-111111111111", svc.undoneID)

	var row model.ProfileChangeRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	assert.True(t, row.IsUndone)
}

func TestUndoRejectsNonUUID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/feed/not-a-uuid/undo", nil)
	newRouter(&fakeFeedService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUndoUnknownIDIs404(t *testing.T) {
	svc := &fakeFeedService{err: model.ErrChangeNotFound}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/feed/5a0b49c2-3f6f-4f7e-9a4e-999999999999/undo", nil)
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
