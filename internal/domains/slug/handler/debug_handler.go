package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dat-backend/internal/domains/slug/service"
	"dat-backend/internal/shared/response"
)

// DebugHandler exposes the raw forward-map probe. Read-only; mounted
// behind the same admin gate and rate limit as the admin routes.
type DebugHandler struct {
	service service.ForwardService
}

func NewDebugHandler(svc service.ForwardService) *DebugHandler {
	return &DebugHandler{service: svc}
}

// SlugForward handles GET /api/debug/slug-forward?slug=<s>.
func (h *DebugHandler) SlugForward(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		response.BadRequest(c, "slug query parameter is required")
		return
	}

	dump, _ := h.service.DebugDump(c.Request.Context(), slug)
	response.OK(c, http.StatusOK, dump)
}
