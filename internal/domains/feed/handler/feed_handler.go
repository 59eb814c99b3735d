package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dat-backend/internal/domains/feed/model"
	"dat-backend/internal/domains/feed/service"
	"dat-backend/internal/shared/response"
	"dat-backend/pkg/logger"
)

type Handler struct {
	service service.Service
}

func NewHandler(s service.Service) *Handler {
	return &Handler{service: s}
}

// Feed handles GET /api/feed.
func (h *Handler) Feed(c *gin.Context) {
	entries, err := h.service.Feed(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"count": len(entries), "entries": entries})
}

// Undo handles POST /api/admin/feed/:id/undo.
func (h *Handler) Undo(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		response.BadRequest(c, "id must be a UUID")
		return
	}

	row, err := h.service.Undo(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, row)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var fErr *model.FeedError
	if errors.As(err, &fErr) {
		switch fErr.Code {
		case "CHANGE_NOT_FOUND":
			response.NotFound(c, "audit entry not found")
			return
		case "FEED_UNAVAILABLE":
			logger.Error("feed unavailable", map[string]interface{}{"error": err.Error()})
			response.Fail(c, http.StatusBadGateway, "community feed temporarily unavailable")
			return
		}
	}
	logger.Error("feed request failed", map[string]interface{}{"error": err.Error()})
	response.InternalServerError(c, "internal error")
}
