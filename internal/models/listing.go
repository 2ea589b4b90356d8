package models

import "time"

// Listing is a context container for marketplace posts (questions and
// comments on an item for sale). Listing management lives outside this core.
type Listing struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price"`
	OwnerID     uint      `json:"owner_id" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
