package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/models"
	"github.com/nexusfeed/backend/internal/notify"
	"github.com/nexusfeed/backend/internal/repositories"
	"github.com/nexusfeed/backend/internal/visibility"
	"gorm.io/gorm"
)

// FriendshipHandler handles HTTP requests related to friend requests
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
	filter               *visibility.Filter
	notifier             *notify.Notifier
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository, filter *visibility.Filter, notifier *notify.Notifier) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
		filter:               filter,
		notifier:             notifier,
	}
}

// RegisterFriendshipRoutes registers friendship-related routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/friends/requests", h.SendFriendRequest)
	g.PATCH("/friends/requests/:id", h.RespondToFriendRequest)
}

// SendFriendRequest sends a friend request to another user
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ReceiverID == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "you cannot send a friend request to yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	visible, err := h.filter.IsVisible(currentUserID, req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "you cannot send a friend request to this user")
	}

	friendRequest := &models.FriendRequest{SenderID: currentUserID, ReceiverID: req.ReceiverID}
	if err := h.friendshipRepository.SendFriendRequest(friendRequest); err != nil {
		if errors.Is(err, repositories.ErrFriendRequestPending) || errors.Is(err, repositories.ErrAlreadyFriends) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusCreated, friendRequest)
}

// RespondToFriendRequest accepts or rejects a friend request. Acceptance
// notifies the original sender.
func (h *FriendshipHandler) RespondToFriendRequest(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request ID")
	}

	var req models.UpdateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	friendRequest, err := h.friendshipRepository.GetFriendRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if friendRequest.ReceiverID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "you are not the receiver of this friend request")
	}
	if friendRequest.Status != models.FriendPending {
		return echo.NewHTTPError(http.StatusBadRequest, "friend request already answered")
	}

	if err := h.friendshipRepository.UpdateFriendRequestStatus(requestID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if req.Status == models.FriendAccepted {
		accepterName := "Someone"
		if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
			accepterName = user.Name
		}
		h.notifier.Notify(friendRequest.SenderID, models.NotifFriendAccept, currentUserID, models.RefUser,
			currentUserID, nil, fmt.Sprintf("%s accepted your friend request", accepterName))
	}

	friendRequest.Status = req.Status
	return c.JSON(http.StatusOK, friendRequest)
}
