package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/freeweek-api/internal/dto"
	"github.com/noah-isme/freeweek-api/internal/service"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
	"github.com/noah-isme/freeweek-api/pkg/response"
)

// AvailabilityHandler wires HTTP endpoints to the availability service.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// List godoc
// @Summary List availability
// @Description List the caller's stored spans overlapping [from, to)
// @Tags Availability
// @Produce json
// @Security BearerAuth
// @Param from query int true "Range start, epoch seconds"
// @Param to query int true "Range end, epoch seconds"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	from, err1 := strconv.ParseInt(c.Query("from"), 10, 64)
	to, err2 := strconv.ParseInt(c.Query("to"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from and to must be epoch seconds"))
		return
	}

	intervals, err := h.service.List(c.Request.Context(), claims.UserID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, intervals, nil)
}

// Replace godoc
// @Summary Replace availability
// @Description Overwrite the caller's spans inside the given range
// @Tags Availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ReplaceAvailabilityRequest true "Replacement range and intervals"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /availability [put]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	intervals, err := h.service.Replace(c.Request.Context(), claims.UserID, claims.Username, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, intervals, nil)
}
