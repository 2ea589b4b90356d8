package models

import "time"

// Group privacy levels
const (
	GroupPublic  = "public"
	GroupPrivate = "private"
)

// Group is a context container for group posts. Creation and listing of
// groups happen outside this core; posts inside them do not.
type Group struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	CreatorID uint      `json:"creator_id" gorm:"index"`
	Privacy   string    `json:"privacy" gorm:"type:varchar(20);default:'public'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMember records membership in a group
type GroupMember struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   uint      `json:"group_id" gorm:"uniqueIndex:idx_group_members_pair"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_group_members_pair"`
	CreatedAt time.Time `json:"created_at"`
}
