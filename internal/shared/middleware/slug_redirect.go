package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"dat-backend/internal/shared/utils"
)

// SlugResolver is what the redirect middleware needs from the slug
// domain; injected so tests can stub resolution.
type SlugResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// ForwardRecorder persists an observed old→new mapping. Called
// fire-and-forget after a redirect; failures are swallowed and the
// mapping stays eventually-consistent (the redirect recurs until a
// write lands).
type ForwardRecorder interface {
	RecordForward(ctx context.Context, old, next, source string) error
}

// SlugRedirectConfig bounds the resolver call so a slow sheet fetch
// cannot add unbounded tail latency to profile requests.
type SlugRedirectConfig struct {
	Resolver SlugResolver
	Recorder ForwardRecorder
	Timeout  time.Duration
}

const defaultResolveTimeout = 3 * time.Second

// SlugRedirect intercepts /alumni/:slug requests. Stale slugs get a 308
// to the canonical path with the query string preserved; everything else
// passes through. The middleware never fails the request: resolver
// errors and timeouts degrade to pass-through with x-slug-action: error.
func SlugRedirect(cfg SlugRedirectConfig) gin.HandlerFunc {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}

	return func(c *gin.Context) {
		raw := c.Param("slug")
		if raw == "" {
			c.Next()
			return
		}

		in := utils.NormalizeSlug(raw)
		c.Writer.Header().Set("x-slug-in", in)

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		canonical, err := cfg.Resolver.Resolve(ctx, raw)
		if err != nil {
			log.Warn().Err(err).Str("slug", raw).Msg("slug resolution soft-failed")
			c.Writer.Header().Set("x-slug-action", "error")
			c.Next()
			return
		}

		// Compare against the raw path segment: a messy spelling of
		// the canonical slug (case, stray characters) still gets a 308
		// to the clean URL.
		if canonical == raw {
			c.Writer.Header().Set("x-slug-action", "pass")
			c.Next()
			return
		}

		c.Writer.Header().Set("x-slug-action", "redirect")
		c.Writer.Header().Set("x-slug-target", canonical)

		location := "/alumni/" + canonical
		if q := c.Request.URL.RawQuery; q != "" {
			location += "?" + q
		}
		c.Redirect(http.StatusPermanentRedirect, location)
		c.Abort()

		// A redirect that only fixed the spelling (in == canonical)
		// needs no forward rule; nothing to persist.
		if cfg.Recorder != nil && in != "" && in != canonical {
			// Not awaited. The request context is about to die with
			// the response, so the write gets its own deadline.
			go func(old, next string) {
				defer func() { recover() }()

				wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer wcancel()

				if err := cfg.Recorder.RecordForward(wctx, old, next, "middleware"); err != nil {
					log.Warn().Err(err).
						Str("old", old).
						Str("next", next).
						Msg("forward write-back failed")
				}
			}(in, canonical)
		}
	}
}
