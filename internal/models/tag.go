package models

import "time"

// Tag is a label attached to articles. GUID is the slug of Title.
type Tag struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	GUID      string    `json:"guid" db:"guid"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TagInput is the create/update payload for tags
type TagInput struct {
	Title string `json:"title"`
}
