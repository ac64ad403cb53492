package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/freeweek-api/internal/service"
	appErrors "github.com/noah-isme/freeweek-api/pkg/errors"
	"github.com/noah-isme/freeweek-api/pkg/response"
)

// FriendHandler wires HTTP endpoints to the friend service.
type FriendHandler struct {
	service *service.FriendService
}

// NewFriendHandler creates a new handler.
func NewFriendHandler(svc *service.FriendService) *FriendHandler {
	return &FriendHandler{service: svc}
}

// List godoc
// @Summary List friends
// @Description List the caller's friends with their request status
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /friends [get]
func (h *FriendHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	friends, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, friends, nil)
}

// Request godoc
// @Summary Send friend request
// @Description Create a pending friend request to another user
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.FriendRequestPayload true "Target username"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends/requests [post]
func (h *FriendHandler) Request(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.FriendRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid friend request payload"))
		return
	}

	if err := h.service.Request(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Accept godoc
// @Summary Accept friend request
// @Description Accept a pending friend request from another user
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.FriendRequestPayload true "Requesting username"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends/requests/accept [post]
func (h *FriendHandler) Accept(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.FriendRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid friend request payload"))
		return
	}

	if err := h.service.Accept(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Remove godoc
// @Summary Remove friend
// @Description Remove a friend or withdraw a pending request
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Param username path string true "Friend username"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /friends/{username} [delete]
func (h *FriendHandler) Remove(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	username := c.Param("username")
	if username == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "username is required"))
		return
	}

	if err := h.service.Remove(c.Request.Context(), claims.UserID, username); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
