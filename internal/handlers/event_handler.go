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

// EventHandler handles event invitations. Event creation and listing live in
// the external calendar service; only the invite flow carries interaction
// semantics (notifications), so only it lives here.
type EventHandler struct {
	eventRepository repositories.EventRepository
	userRepository  repositories.UserRepository
	filter          *visibility.Filter
	notifier        *notify.Notifier
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventRepo repositories.EventRepository, userRepo repositories.UserRepository, filter *visibility.Filter, notifier *notify.Notifier) *EventHandler {
	return &EventHandler{
		eventRepository: eventRepo,
		userRepository:  userRepo,
		filter:          filter,
		notifier:        notifier,
	}
}

// RegisterEventRoutes registers event invite routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events/:event_id/invite", h.InviteToEvent)
	g.POST("/events/:event_id/invite/respond", h.RespondToInvite)
}

// InviteToEvent invites a user to an event and notifies them
func (h *EventHandler) InviteToEvent(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	eventID, err := parseUintParam(c, "event_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	var req models.InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventRepository.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// Inviter must be the creator or a going attendee
	if currentUserID != event.CreatorID {
		attending, err := h.eventRepository.IsAttending(eventID, currentUserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if !attending {
			return echo.NewHTTPError(http.StatusForbidden, "only the event creator or attendees can invite")
		}
	}

	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	visible, err := h.filter.IsVisible(currentUserID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !visible {
		return echo.NewHTTPError(http.StatusForbidden, "you cannot invite this user")
	}

	attendee := &models.EventAttendee{
		EventID:   eventID,
		UserID:    req.UserID,
		Status:    models.AttendInvited,
		InviterID: &currentUserID,
	}
	if err := h.eventRepository.CreateAttendee(attendee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusBadRequest, "user already invited or attending")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	inviterName := "Someone"
	if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		inviterName = user.Name
	}
	h.notifier.Notify(req.UserID, models.NotifEventInvite, eventID, models.RefEvent, currentUserID, &eventID,
		fmt.Sprintf("%s invited you to %s", inviterName, event.Title))

	return c.JSON(http.StatusCreated, attendee)
}

// RespondToInvite accepts or declines a pending event invite. Acceptance
// notifies the inviter.
func (h *EventHandler) RespondToInvite(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	eventID, err := parseUintParam(c, "event_id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event ID")
	}

	var req models.InviteResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventRepository.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	attendee, err := h.eventRepository.GetAttendee(eventID, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "invite not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if attendee.Status != models.AttendInvited {
		return echo.NewHTTPError(http.StatusBadRequest, "no pending invite for this event")
	}

	if err := h.eventRepository.UpdateAttendeeStatus(eventID, currentUserID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if req.Status == models.AttendGoing && attendee.InviterID != nil {
		responderName := "Someone"
		if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
			responderName = user.Name
		}
		h.notifier.Notify(*attendee.InviterID, models.NotifInviteAccept, eventID, models.RefEvent,
			currentUserID, &eventID, fmt.Sprintf("%s is going to %s", responderName, event.Title))
	}

	attendee.Status = req.Status
	return c.JSON(http.StatusOK, attendee)
}
