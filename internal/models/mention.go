package models

import "time"

// Mention records an inline reference to another user inside post or comment
// text. Rows are written only after the block check between actor and target.
type Mention struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	SourceID        uint      `json:"source_id" gorm:"index:idx_mentions_source"`
	SourceKind      string    `json:"source_kind" gorm:"size:10;index:idx_mentions_source"` // post or comment
	MentionedUserID uint      `json:"mentioned_user_id" gorm:"index"`
	ActorID         uint      `json:"actor_id"`
	ContextID       *uint     `json:"context_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// MentionPostRequest defines the request body for registering a post mention
type MentionPostRequest struct {
	PostID          uint  `json:"post_id" validate:"required"`
	MentionedUserID uint  `json:"mentioned_user_id" validate:"required"`
	GroupID         *uint `json:"group_id,omitempty"`
}

// MentionCommentRequest defines the request body for registering a comment mention
type MentionCommentRequest struct {
	CommentID       uint  `json:"comment_id" validate:"required"`
	MentionedUserID uint  `json:"mentioned_user_id" validate:"required"`
	GroupID         *uint `json:"group_id,omitempty"`
}
