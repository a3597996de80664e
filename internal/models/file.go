package models

import "time"

// File is a node of the upload tree: either a folder or a stored upload
type File struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Filename    string    `json:"filename,omitempty" db:"filename"`
	IsFolder    bool      `json:"isFolder" db:"is_folder"`
	Mimetype    string    `json:"mimetype,omitempty" db:"mimetype"`
	Path        string    `json:"path" db:"path"`
	Size        int64     `json:"size,omitempty" db:"size"`
	FolderID    *string   `json:"folderId" db:"folder_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// FolderInput creates a folder, optionally inside another one
type FolderInput struct {
	Title    string  `json:"title"`
	Path     string  `json:"path"`
	FolderID *string `json:"folderId"`
}

// FileUpdateInput changes the descriptive fields of a file or folder
type FileUpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Upload describes a leaf file already written to storage
type Upload struct {
	Title    string
	Filename string
	Mimetype string
	Size     int64
	FolderID *string
}

// Counts is the number of documents per collection
type Counts struct {
	Articles   int `json:"articles"`
	Pages      int `json:"pages"`
	Categories int `json:"categories"`
	Tags       int `json:"tags"`
	Files      int `json:"files"`
}
