package models

import "time"

// Notification types written by the fanout worker
const (
	NotifLike         = "like"
	NotifComment      = "comment"
	NotifReply        = "reply"
	NotifMention      = "mention"
	NotifFriendAccept = "friend_accept"
	NotifEventInvite  = "event_invite"
	NotifInviteAccept = "invite_accept"
	NotifGroupPost    = "group_post"
	NotifEventPost    = "event_post"
)

// Notification reference kinds
const (
	RefPost    = "post"
	RefComment = "comment"
	RefUser    = "user"
	RefEvent   = "event"
)

// Notification represents a user notification. Rows are only ever created by
// the fanout worker, flipped to read, or removed by cascade deletion.
type Notification struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Type          string    `json:"type" gorm:"size:30;index"`
	ActorID       uint      `json:"actor_id" gorm:"index"`
	RecipientID   uint      `json:"recipient_id" gorm:"index"`
	ReferenceID   uint      `json:"reference_id" gorm:"index:idx_notifications_ref"`
	ReferenceKind string    `json:"reference_kind" gorm:"size:20;index:idx_notifications_ref"`
	ContextID     *uint     `json:"context_id,omitempty"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}
