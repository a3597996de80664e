package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/content-graph-api/internal/models"
	"github.com/google/uuid"
)

var (
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

const (
	maxTitleLength = 250
	maxTags        = 50
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of validation errors reported together
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Field + ": " + v.Message
	}
	return strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when it is empty
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e *Errors) add(field, message string, value interface{}) {
	*e = append(*e, ValidationError{Field: field, Message: message, Value: value})
}

func (e *Errors) title(title string) {
	switch {
	case strings.TrimSpace(title) == "":
		e.add("title", "title is required", nil)
	case len(title) > maxTitleLength:
		e.add("title", fmt.Sprintf("title exceeds %d characters", maxTitleLength), nil)
	}
}

func (e *Errors) guid(guid string, required bool) {
	if guid == "" {
		if required {
			e.add("guid", "guid is required", nil)
		}
		return
	}
	if !slugRegex.MatchString(guid) {
		e.add("guid", "guid must be kebab-case (lowercase letters, numbers, hyphens)", guid)
	}
}

func (e *Errors) ref(field string, id *string) {
	if id != nil && !IsUUID(*id) {
		e.add(field, "invalid UUID format", *id)
	}
}

// ValidateArticle validates an article create/update payload
func ValidateArticle(in *models.ArticleInput) Errors {
	var errs Errors
	errs.title(in.Title)
	errs.guid(in.GUID, true)

	for _, id := range in.Categories {
		if !IsUUID(id) {
			errs.add("categories", "invalid UUID format", id)
		}
	}
	if len(in.Tags) > maxTags {
		errs.add("tags", fmt.Sprintf("at most %d tags are allowed", maxTags), len(in.Tags))
	}
	for _, label := range in.Tags {
		if strings.TrimSpace(label) == "" {
			errs.add("tags", "tag labels must not be blank", label)
		}
	}
	errs.ref("coverImage", in.CoverImage)
	return errs
}

// ValidatePage validates a page create/update payload
func ValidatePage(in *models.PageInput) Errors {
	var errs Errors
	errs.title(in.Title)
	errs.guid(in.GUID, true)
	return errs
}

// ValidateCategory validates a category payload. The guid is derived from
// the title when omitted.
func ValidateCategory(in *models.CategoryInput) Errors {
	var errs Errors
	errs.title(in.Title)
	errs.guid(in.GUID, false)
	errs.ref("parent", in.Parent)
	if in.Order < 0 {
		errs.add("order", "order must not be negative", in.Order)
	}
	return errs
}

// ValidateTag validates a tag payload
func ValidateTag(in *models.TagInput) Errors {
	var errs Errors
	errs.title(in.Title)
	return errs
}

// ValidateFolder validates a folder payload
func ValidateFolder(in *models.FolderInput) Errors {
	var errs Errors
	errs.title(in.Title)
	if in.Path == "" {
		errs.add("path", "path is required", nil)
	} else if !strings.HasPrefix(in.Path, "/") || strings.Contains(in.Path, "..") {
		errs.add("path", "path must be absolute and must not contain '..'", in.Path)
	}
	errs.ref("folderId", in.FolderID)
	return errs
}

// ValidateFileUpdate validates a file update payload
func ValidateFileUpdate(in *models.FileUpdateInput) Errors {
	var errs Errors
	errs.title(in.Title)
	return errs
}

// ValidateIP checks the caller address used by engagement counters
func ValidateIP(ip string) Errors {
	var errs Errors
	if ip == "" {
		errs.add("ip", "client ip is required", nil)
	} else if net.ParseIP(ip) == nil {
		errs.add("ip", "invalid ip address", ip)
	}
	return errs
}

// IsUUID checks if a string is a valid UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
