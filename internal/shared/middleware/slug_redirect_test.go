package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dat-backend/internal/shared/utils"
)

type stubResolver struct {
	canonical map[string]string
	delay     time.Duration
	err       error
}

func (s *stubResolver) Resolve(ctx context.Context, input string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	// Mirrors the real resolver's contract: input is normalized first.
	in := utils.NormalizeSlug(input)
	if c, ok := s.canonical[in]; ok {
		return c, nil
	}
	return in, nil
}

type recordingRecorder struct {
	mu    sync.Mutex
	calls [][2]string
	done  chan struct{}
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{done: make(chan struct{}, 1)}
}

func (r *recordingRecorder) RecordForward(ctx context.Context, old, next, source string) error {
	r.mu.Lock()
	r.calls = append(r.calls, [2]string{old, next})
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func newAlumniRouter(cfg SlugRedirectConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/alumni/:slug", SlugRedirect(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"slug": c.Param("slug")})
	})
	return router
}

func TestSlugRedirect_RedirectPreservesQuery(t *testing.T) {
	recorder := newRecordingRecorder()
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{canonical: map[string]string{"old-name": "new-name"}},
		Recorder: recorder,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/alumni/old-name?ref=fb", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/alumni/new-name?ref=fb", w.Header().Get("Location"))
	assert.Equal(t, "redirect", w.Header().Get("x-slug-action"))
	assert.Equal(t, "new-name", w.Header().Get("x-slug-target"))

	select {
	case <-recorder.done:
	case <-time.After(time.Second):
		t.Fatal("write-back never fired")
	}
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.calls, 1)
	assert.Equal(t, [2]string{"old-name", "new-name"}, recorder.calls[0])
}

func TestSlugRedirect_PassThroughOnCanonical(t *testing.T) {
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/unknown-slug", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pass", w.Header().Get("x-slug-action"))
	assert.Equal(t, "unknown-slug", w.Header().Get("x-slug-in"))
}

func TestSlugRedirect_SoftFailOnResolverError(t *testing.T) {
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{err: errors.New("sheet unreachable")},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/any-slug", nil))

	assert.Equal(t, http.StatusOK, w.Code, "middleware must never 5xx")
	assert.Equal(t, "error", w.Header().Get("x-slug-action"))
}

func TestSlugRedirect_TimeoutSoftFailsWithinBound(t *testing.T) {
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{
			canonical: map[string]string{"old-name": "new-name"},
			delay:     time.Second,
		},
		Timeout: 50 * time.Millisecond,
	})

	start := time.Now()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/old-name", nil))
	elapsed := time.Since(start)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", w.Header().Get("x-slug-action"))
	assert.Less(t, elapsed, 500*time.Millisecond, "timeout plus small overhead")
}

func TestSlugRedirect_NoRecorderStillRedirects(t *testing.T) {
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{canonical: map[string]string{"a": "b"}},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/a", nil))
	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
}

func TestSlugRedirect_MessySlugRedirectsToNormalized(t *testing.T) {
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/Jane-DOE", nil))

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/alumni/jane-doe", w.Header().Get("Location"))
}

func TestSlugRedirect_SpellingFixPersistsNoRule(t *testing.T) {
	// Normalization-only redirects map a slug to itself; writing that
	// as a forward rule would be a self-forward.
	recorder := newRecordingRecorder()
	router := newAlumniRouter(SlugRedirectConfig{
		Resolver: &stubResolver{},
		Recorder: recorder,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alumni/Jane-DOE", nil))
	require.Equal(t, http.StatusPermanentRedirect, w.Code)

	select {
	case <-recorder.done:
		t.Fatal("no forward rule should be written for a spelling fix")
	case <-time.After(100 * time.Millisecond):
	}
}
