package models

import "time"

// Like target kinds
const (
	TargetPost    = "post"
	TargetComment = "comment"
)

// Like represents a like on a post or comment. Existence is the only state;
// counts are derived by aggregation. The composite unique index is the sole
// guard against concurrent duplicate likes.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TargetID   uint      `json:"target_id" gorm:"uniqueIndex:idx_likes_target_user"`
	TargetKind string    `json:"target_kind" gorm:"size:10;uniqueIndex:idx_likes_target_user"`
	UserID     uint      `json:"user_id" gorm:"uniqueIndex:idx_likes_target_user"`
	CreatedAt  time.Time `json:"created_at"`
}
