package models

import "time"

// Event privacy levels
const (
	EventPublic  = "public"
	EventPrivate = "private"
	EventFriends = "friends"
)

// Event attendance statuses
const (
	AttendInvited  = "invited"
	AttendGoing    = "going"
	AttendDeclined = "declined"
)

// Event is a context container for event posts
type Event struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	CreatorID uint      `json:"creator_id" gorm:"index"`
	Privacy   string    `json:"privacy" gorm:"type:varchar(20);default:'public'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventAttendee records a user's relationship to an event. InviterID is set
// when the row was created by an invite, so the acceptance notification knows
// who to go to.
type EventAttendee struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   uint      `json:"event_id" gorm:"uniqueIndex:idx_event_attendees_pair"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_event_attendees_pair"`
	Status    string    `json:"status" gorm:"type:varchar(20)"`
	InviterID *uint     `json:"inviter_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InviteRequest defines the request body for inviting a user to an event
type InviteRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

// InviteResponseRequest defines the request body for answering an event invite
type InviteResponseRequest struct {
	Status string `json:"status" validate:"required,oneof=going declined"`
}
