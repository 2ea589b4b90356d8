package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/contexts"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/services"
)

// ContentHandler serves the interaction routes for one content context. The
// same handler type is registered four times, once per context descriptor;
// only the descriptor differs.
type ContentHandler struct {
	service *services.ContentService
	desc    contexts.Descriptor
}

// NewContentHandler creates a ContentHandler for one context
func NewContentHandler(service *services.ContentService, desc contexts.Descriptor) *ContentHandler {
	return &ContentHandler{service: service, desc: desc}
}

// RegisterContentRoutes registers the context's interaction routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
	g.GET("/posts/:id/likes/count", h.GetLikesCount)
	g.GET("/posts/:id/liked", h.GetLikedStatus)
	g.GET("/posts/:id/comments", h.ListComments)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.POST("/comments/:id/reply", h.ReplyToComment)
	g.GET("/comments/:id", h.GetComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.LikeComment)
	g.DELETE("/comments/:id/like", h.UnlikeComment)
}

// contextID extracts the context key from the route, nil for the open feed
func (h *ContentHandler) contextID(c echo.Context) (*uint, error) {
	if h.desc.KeyParam == "" {
		return nil, nil
	}
	id, err := parseUintParam(c, h.desc.KeyParam)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid context id")
	}
	return &id, nil
}

// CreatePost creates a post in this context
func (h *ContentHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(h.desc, contextID, userID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// ListPosts lists the context's posts, newest first
func (h *ContentHandler) ListPosts(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListPosts(h.desc, contextID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost retrieves one post
func (h *ContentHandler) GetPost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	post, err := h.service.GetPost(h.desc, contextID, userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes the caller's post and cascades
func (h *ContentHandler) DeletePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	if err := h.service.DeletePost(h.desc, contextID, userID, postID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// LikePost likes a post
func (h *ContentHandler) LikePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	like, err := h.service.LikePost(h.desc, contextID, userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikePost removes the caller's like from a post
func (h *ContentHandler) UnlikePost(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	if err := h.service.UnlikePost(h.desc, contextID, userID, postID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "like removed"})
}

// GetLikesCount returns the number of likes on a post
func (h *ContentHandler) GetLikesCount(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	count, err := h.service.PostLikesCount(h.desc, contextID, userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}

// GetLikedStatus reports whether the caller has liked a post
func (h *ContentHandler) GetLikedStatus(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	liked, err := h.service.HasLikedPost(h.desc, contextID, userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}

// ListComments returns a post's comments as a two-level tree
func (h *ContentHandler) ListComments(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	tree, err := h.service.ListComments(h.desc, contextID, userID, postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tree)
}

// CreateComment creates a top-level comment on a post
func (h *ContentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	postID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(h.desc, contextID, userID, postID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// ReplyToComment creates a reply under a top-level comment
func (h *ContentHandler) ReplyToComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.service.ReplyToComment(h.desc, contextID, userID, commentID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reply)
}

// GetComment retrieves one comment
func (h *ContentHandler) GetComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	comment, err := h.service.GetComment(h.desc, contextID, userID, commentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes the caller's comment and cascades
func (h *ContentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	if err := h.service.DeleteComment(h.desc, contextID, userID, commentID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted"})
}

// LikeComment likes a comment
func (h *ContentHandler) LikeComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	like, err := h.service.LikeComment(h.desc, contextID, userID, commentID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, like)
}

// UnlikeComment removes the caller's like from a comment
func (h *ContentHandler) UnlikeComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	contextID, err := h.contextID(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid comment ID")
	}

	if err := h.service.UnlikeComment(h.desc, contextID, userID, commentID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "like removed"})
}
