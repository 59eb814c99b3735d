package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dat-backend/internal/domains/slug/model"
	"dat-backend/internal/domains/slug/service"
	"dat-backend/internal/shared/response"
	"dat-backend/pkg/logger"
)

// AdminHandler exposes the slug subsystem's admin surface.
type AdminHandler struct {
	service          service.ForwardService
	autoCanonicalize bool
}

func NewAdminHandler(svc service.ForwardService, autoCanonicalize bool) *AdminHandler {
	return &AdminHandler{service: svc, autoCanonicalize: autoCanonicalize}
}

// ForwardSlug handles GET /api/admin/forward-slug?slug=<s>.
// Responds {"target": "<canonical>"} or {"target": null}.
func (h *AdminHandler) ForwardSlug(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		response.BadRequest(c, "slug query parameter is required")
		return
	}

	target, err := h.service.Lookup(c.Request.Context(), slug)
	if err != nil {
		h.fail(c, "forward lookup failed", err)
		return
	}

	response.OK(c, http.StatusOK, model.ForwardLookupResponse{Target: target})
}

// AutoCanon handles GET|POST /api/admin/auto-canon?old=<s>&next=<s>.
// Requires AUTO_CANONICALIZE_SLUGS=true on top of the admin gate.
func (h *AdminHandler) AutoCanon(c *gin.Context) {
	if !h.autoCanonicalize {
		response.Forbidden(c, "auto-canonicalization is disabled")
		return
	}

	var req model.AutoCanonRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.RecordForward(c.Request.Context(), req.Old, req.Next, "admin"); err != nil {
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			response.BadRequest(c, vErrs.Error())
			return
		}
		var slugErr *model.SlugError
		if errors.As(err, &slugErr) && slugErr.Code != "SLUG_UPSTREAM_UNAVAILABLE" {
			response.BadRequest(c, slugErr.Message)
			return
		}
		h.fail(c, "auto-canon failed", err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"ok": true, "old": req.Old, "next": req.Next})
}

// DiagAliases handles GET /api/admin/diag-aliases?slug=<s>.
func (h *AdminHandler) DiagAliases(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		response.BadRequest(c, "slug query parameter is required")
		return
	}

	diag, err := h.service.AliasDiagnostics(c.Request.Context(), slug)
	if err != nil {
		h.fail(c, "alias diagnostics failed", err)
		return
	}

	response.OK(c, http.StatusOK, diag)
}

// InvalidateAliases handles POST /api/admin/invalidate-aliases?slug=<s>.
// Omitting slug flushes the whole alias cache.
func (h *AdminHandler) InvalidateAliases(c *gin.Context) {
	slug := c.Query("slug")

	if err := h.service.InvalidateAliases(c.Request.Context(), slug); err != nil {
		h.fail(c, "alias cache flush failed", err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"ok": true, "flushed": slug})
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]interface{}{"error": err.Error()})

	var slugErr *model.SlugError
	if errors.As(err, &slugErr) && slugErr == model.ErrInvalidSlug {
		response.BadRequest(c, slugErr.Message)
		return
	}
	response.InternalServerError(c, msg)
}
