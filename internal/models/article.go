package models

import (
	"time"
)

// Article is a published post. Categories and Tags are reference sets of
// identifiers; the store does not enforce that they resolve.
type Article struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Content     string    `json:"content" db:"content"`
	GUID        string    `json:"guid" db:"guid"`
	Categories  []string  `json:"categories" db:"categories"`
	Tags        []string  `json:"tags" db:"tags"`
	CoverImage  *string   `json:"coverImage,omitempty" db:"cover_image"`
	ViewIPs     []string  `json:"-" db:"view_ips"`
	LikedIPs    []string  `json:"-" db:"liked_ips"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ArticleInput is the create/update payload. Tags are labels, not identifiers;
// missing tags are provisioned on write.
type ArticleInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	GUID        string   `json:"guid"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	CoverImage  *string  `json:"coverImage,omitempty"`
}

// ArticleView is an Article with its references resolved for reading
type ArticleView struct {
	*Article
	Categories []Category `json:"categories"`
	Tags       []Tag      `json:"tags"`
	CoverImage *File      `json:"coverImage,omitempty"`
	ViewCount  int        `json:"viewCount"`
	LikeCount  int        `json:"likeCount"`
}

// LikeResult is returned after recording a like
type LikeResult struct {
	LikeCount int  `json:"likeCount"`
	Liked     bool `json:"liked"`
}
