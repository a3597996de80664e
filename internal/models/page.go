package models

import "time"

// Page is a static page. Its guid shares one namespace with article guids.
type Page struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Content     string    `json:"content" db:"content"`
	GUID        string    `json:"guid" db:"guid"`
	ViewIPs     []string  `json:"-" db:"view_ips"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// PageInput is the create/update payload for pages
type PageInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	GUID        string `json:"guid"`
}

// PageView is a Page as returned to readers
type PageView struct {
	*Page
	ViewCount int `json:"viewCount"`
}

// SlugKind identifies which collection owns a guid
type SlugKind string

const (
	SlugKindArticle SlugKind = "article"
	SlugKindPage    SlugKind = "page"
)

// SlugClaim is one entry of the shared article/page guid namespace
type SlugClaim struct {
	GUID    string   `json:"guid" db:"guid"`
	Kind    SlugKind `json:"kind" db:"kind"`
	OwnerID string   `json:"ownerId" db:"owner_id"`
}
