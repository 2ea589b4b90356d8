package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"gorm.io/gorm"
)

// UserHandler handles user search and block management
type UserHandler struct {
	userRepository  repositories.UserRepository
	blockRepository repositories.BlockRepository
	filter          *visibility.Filter
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, blockRepo repositories.BlockRepository, filter *visibility.Filter) *UserHandler {
	return &UserHandler{
		userRepository:  userRepo,
		blockRepository: blockRepo,
		filter:          filter,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.POST("/users/:id/block", h.BlockUser)
	g.DELETE("/users/:id/block", h.UnblockUser)
}

// SearchUsers finds users by display name. Results exclude the caller and
// anyone in a block relationship with them, in either direction.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	excludeIDs, err := h.filter.BlockedIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	excludeIDs = append(excludeIDs, currentUserID)

	users, err := h.userRepository.SearchUsers(query, excludeIDs, 20)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	results := make([]models.UserCompact, 0, len(users))
	for i := range users {
		results = append(results, users[i].ToCompact())
	}
	return c.JSON(http.StatusOK, results)
}

// BlockUser creates a block relationship toward another user
func (h *UserHandler) BlockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}
	if targetID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "you cannot block yourself")
	}

	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	block := &models.Block{BlockerID: currentUserID, BlockedID: targetID}
	if err := h.blockRepository.CreateBlock(block); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "user already blocked")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusCreated, block)
}

// UnblockUser removes the caller's block toward another user
func (h *UserHandler) UnblockUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user ID")
	}

	if err := h.blockRepository.DeleteBlock(currentUserID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "block not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user unblocked"})
}
