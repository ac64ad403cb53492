package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/engine"
	"github.com/noah-isme/freeweek-api/internal/service"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
	"github.com/noah-isme/freeweek-api/pkg/response"
)

// TemplateHandler wires HTTP endpoints to the template service. Apply also
// touches the availability service to write the expanded day.
type TemplateHandler struct {
	service      *service.TemplateService
	availability *service.AvailabilityService
}

// NewTemplateHandler creates a new handler.
func NewTemplateHandler(svc *service.TemplateService, availability *service.AvailabilityService) *TemplateHandler {
	return &TemplateHandler{service: svc, availability: availability}
}

// List godoc
// @Summary List day templates
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	templates, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, templates, nil)
}

// Create godoc
// @Summary Create day template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SaveTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}

	tpl, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, tpl)
}

// Update godoc
// @Summary Update day template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param payload body service.SaveTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid template payload"))
		return
	}

	tpl, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tpl, nil)
}

// Delete godoc
// @Summary Delete day template
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

type applyTemplateRequest struct {
	DayStart int64 `json:"day_start" binding:"required"`
}

// Apply godoc
// @Summary Apply template to a day
// @Description Expand the template at a day's local midnight and replace that day's availability
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param payload body applyTemplateRequest true "Target day start, epoch seconds"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id}/apply [post]
func (h *TemplateHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "day_start is required"))
		return
	}

	expanded, err := h.service.Expand(c.Request.Context(), claims.UserID, c.Param("id"), req.DayStart)
	if err != nil {
		response.Error(c, err)
		return
	}

	raw := make([]engine.RawInterval, 0, len(expanded))
	for _, iv := range expanded {
		raw = append(raw, engine.NewEpochInterval(iv.From, iv.To))
	}

	intervals, err := h.availability.Replace(c.Request.Context(), claims.UserID, claims.Username, dto.ReplaceAvailabilityRequest{
		From:      req.DayStart,
		To:        req.DayStart + 86400,
		Intervals: raw,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, intervals, nil)
}
