package models

import "time"

// Category is a node of the category tree. Parent is not cycle-checked.
type Category struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	GUID        string    `json:"guid" db:"guid"`
	Parent      *string   `json:"parent" db:"parent"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryInput is the create/update payload for categories
type CategoryInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GUID        string  `json:"guid"`
	Parent      *string `json:"parent"`
	Order       int     `json:"order"`
}
