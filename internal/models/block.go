package models

import "time"

// Block represents a directional block relationship. Visibility treats it as
// symmetric: a row in either direction hides content both ways.
type Block struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID uint      `json:"blocker_id" gorm:"uniqueIndex:idx_blocks_pair"`
	BlockedID uint      `json:"blocked_id" gorm:"uniqueIndex:idx_blocks_pair"`
	CreatedAt time.Time `json:"created_at"`
}
