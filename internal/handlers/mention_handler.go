package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/services"
)

// MentionHandler handles HTTP requests registering mentions
type MentionHandler struct {
	service *services.MentionService
}

// NewMentionHandler creates a new MentionHandler
func NewMentionHandler(service *services.MentionService) *MentionHandler {
	return &MentionHandler{service: service}
}

// RegisterMentionRoutes registers mention-related routes
func (h *MentionHandler) RegisterMentionRoutes(g *echo.Group) {
	g.POST("/mentions/post", h.MentionInPost)
	g.POST("/mentions/comment", h.MentionInComment)
	g.GET("/mentions", h.ListMyMentions)
}

// ListMyMentions returns every recorded mention of the caller
func (h *MentionHandler) ListMyMentions(c echo.Context) error {
	userID := getUserIDFromContext(c)

	list, err := h.service.MentionsOfUser(userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// MentionInPost registers a mention occurring in a post's body
func (h *MentionHandler) MentionInPost(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.MentionPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	mention, err := h.service.MentionInPost(userID, req.PostID, req.MentionedUserID, req.GroupID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, mention)
}

// MentionInComment registers a mention occurring in a comment's body
func (h *MentionHandler) MentionInComment(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.MentionCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	mention, err := h.service.MentionInComment(userID, req.CommentID, req.MentionedUserID, req.GroupID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, mention)
}
