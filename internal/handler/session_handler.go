package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/service"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
	"github.com/noah-isme/freeweek-api/pkg/response"
)

// SessionHandler wires HTTP endpoints to the session compute service.
type SessionHandler struct {
	service *service.SessionService
	exports *service.ExportService
}

// NewSessionHandler creates a new handler.
func NewSessionHandler(svc *service.SessionService, exports *service.ExportService) *SessionHandler {
	return &SessionHandler{service: svc, exports: exports}
}

// Compute godoc
// @Summary Compute group week view
// @Description Aggregate the group's availability into the per-slot heatmap, dim mask and ranked candidate windows
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ComputeSessionsRequest true "Group and filter parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /sessions/compute [post]
func (h *SessionHandler) Compute(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ComputeSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session request"))
		return
	}

	res, err := h.service.Compute(c.Request.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Export godoc
// @Summary Export session plan
// @Description Compute the week view and stream the ranked windows as CSV or PDF
// @Tags Sessions
// @Accept json
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string true "csv or pdf"
// @Param payload body dto.ComputeSessionsRequest true "Group and filter parameters"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /sessions/export [post]
func (h *SessionHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled"))
		return
	}

	var req dto.ComputeSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session request"))
		return
	}

	res, err := h.service.Compute(c.Request.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exports.SessionPlan(res, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.MimeType, result.Payload)
}
