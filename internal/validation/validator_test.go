package validation

import (
	"strings"
	"testing"

	"github.com/content-graph-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func fields(errs Errors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateArticle(t *testing.T) {
	validID := "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name       string
		input      *models.ArticleInput
		wantFields []string
	}{
		{
			name: "valid article",
			input: &models.ArticleInput{
				Title:      "Hello",
				GUID:       "hello-world",
				Categories: []string{validID},
				Tags:       []string{"Teknoloji", "teknoloji"},
				CoverImage: ptr(validID),
			},
		},
		{
			name:       "missing title and guid",
			input:      &models.ArticleInput{},
			wantFields: []string{"title", "guid"},
		},
		{
			name:       "guid not kebab-case",
			input:      &models.ArticleInput{Title: "Hello", GUID: "Hello World"},
			wantFields: []string{"guid"},
		},
		{
			name:       "category is not a uuid",
			input:      &models.ArticleInput{Title: "Hello", GUID: "hello", Categories: []string{"news"}},
			wantFields: []string{"categories"},
		},
		{
			name:       "blank tag label",
			input:      &models.ArticleInput{Title: "Hello", GUID: "hello", Tags: []string{"go", "  "}},
			wantFields: []string{"tags"},
		},
		{
			name:       "bad cover image",
			input:      &models.ArticleInput{Title: "Hello", GUID: "hello", CoverImage: ptr("logo.png")},
			wantFields: []string{"coverImage"},
		},
		{
			name:       "title too long",
			input:      &models.ArticleInput{Title: strings.Repeat("a", maxTitleLength+1), GUID: "hello"},
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateArticle(tt.input)
			if len(tt.wantFields) == 0 {
				assert.Empty(t, errs)
				assert.NoError(t, errs.Err())
				return
			}
			assert.Equal(t, tt.wantFields, fields(errs))
			assert.Error(t, errs.Err())
		})
	}
}

func TestValidateCategory(t *testing.T) {
	assert.Empty(t, ValidateCategory(&models.CategoryInput{Title: "News"}))
	assert.Equal(t, []string{"parent", "order"},
		fields(ValidateCategory(&models.CategoryInput{Title: "News", Parent: ptr("x"), Order: -1})))
}

func TestValidateFolder(t *testing.T) {
	assert.Empty(t, ValidateFolder(&models.FolderInput{Title: "images", Path: "/images"}))
	assert.Equal(t, []string{"path"}, fields(ValidateFolder(&models.FolderInput{Title: "images", Path: "images"})))
	assert.Equal(t, []string{"path"}, fields(ValidateFolder(&models.FolderInput{Title: "up", Path: "/a/../b"})))
}

func TestValidateIP(t *testing.T) {
	assert.Empty(t, ValidateIP("192.168.1.10"))
	assert.Empty(t, ValidateIP("2001:db8::1"))
	assert.NotEmpty(t, ValidateIP(""))
	assert.NotEmpty(t, ValidateIP("not an ip"))
}

func TestErrors_Error(t *testing.T) {
	errs := ValidatePage(&models.PageInput{})
	assert.Equal(t, "title: title is required; guid: guid is required", errs.Error())
}
