package models

import "time"

// Context values scope a post to one of the four content surfaces.
const (
	ContextFeed        = "feed"
	ContextGroup       = "group"
	ContextEvent       = "event"
	ContextMarketplace = "marketplace"
)

// Post represents a piece of content in one of the four contexts. ContextID
// carries the group/event/listing id and is null for open-feed posts.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Context   string    `json:"context" gorm:"size:20;index:idx_posts_scope"`
	ContextID *uint     `json:"context_id,omitempty" gorm:"index:idx_posts_scope"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a post joined with author display fields and derived counts
type PostView struct {
	Post
	Author        UserCompact `json:"author"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
