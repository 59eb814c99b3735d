package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"dat-backend/internal/domains/alumni/model"
	"dat-backend/internal/domains/alumni/service"
	"dat-backend/internal/shared/response"
	"dat-backend/pkg/logger"
)

type Handler struct {
	service service.Service
}

func NewHandler(s service.Service) *Handler {
	return &Handler{service: s}
}

// List handles GET /api/alumni.
func (h *Handler) List(c *gin.Context) {
	views, err := h.service.ListVisible(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"count": len(views), "alumni": views})
}

// Get handles GET /alumni/:slug. The redirect middleware has already
// settled the canonical slug by the time this runs.
func (h *Handler) Get(c *gin.Context) {
	view, err := h.service.GetProfile(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, view)
}

// Update handles PUT /api/admin/alumni/:slug.
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "malformed profile update")
		return
	}

	p, err := h.service.UpdateProfile(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			response.BadRequest(c, vErrs.Error())
			return
		}
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

// Export handles GET /api/admin/alumni/export and streams the roster as
// an xlsx attachment.
func (h *Handler) Export(c *gin.Context) {
	f, err := h.service.ExportRoster(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := fmt.Sprintf("alumni-roster-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		logger.Error("roster export write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	var aErr *model.AlumniError
	if errors.As(err, &aErr) {
		switch aErr.Code {
		case "PROFILE_NOT_FOUND":
			response.NotFound(c, "profile not found")
			return
		case "ROSTER_UNAVAILABLE":
			logger.Error("roster unavailable", map[string]interface{}{"error": err.Error()})
			response.Fail(c, http.StatusBadGateway, "roster temporarily unavailable")
			return
		}
	}
	logger.Error("alumni request failed", map[string]interface{}{"error": err.Error()})
	response.InternalServerError(c, "internal error")
}
