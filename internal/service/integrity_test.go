package service_test

import (
	"context"
	"testing"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDelete_RemovesEveryReference(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	gone := h.category(t, "Gone")
	kept := h.category(t, "Kept")
	a1 := h.article(t, models.ArticleInput{GUID: "a1", Categories: []string{kept.ID, gone.ID}})
	a2 := h.article(t, models.ArticleInput{GUID: "a2", Categories: []string{gone.ID}})
	a3 := h.article(t, models.ArticleInput{GUID: "a3", Categories: []string{kept.ID}})

	require.NoError(t, h.services.Category.Delete(ctx, gone.ID))

	for _, a := range h.articleRepo.Articles {
		assert.NotContains(t, a.Categories, gone.ID)
	}
	assert.Equal(t, []string{kept.ID}, h.articleRepo.Articles[a1.ID].Categories)
	assert.Empty(t, h.articleRepo.Articles[a2.ID].Categories)
	assert.Equal(t, []string{kept.ID}, h.articleRepo.Articles[a3.ID].Categories)
}

func TestCategoryDelete_DetachesChildren(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	parent := h.category(t, "Parent")
	child, err := h.services.Category.Create(ctx, &models.CategoryInput{Title: "Child", Parent: &parent.ID})
	require.NoError(t, err)

	require.NoError(t, h.services.Category.Delete(ctx, parent.ID))

	got, err := h.services.Category.Get(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Parent)
}

func TestCategoryService_Create(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	c := h.category(t, "Çağrı Merkezi")
	assert.Equal(t, "cagri-merkezi", c.GUID)

	_, err := h.services.Category.Create(ctx, &models.CategoryInput{Title: "ÇAĞRI MERKEZİ"})
	requireKind(t, err, fault.Conflict)

	_, err = h.services.Category.Create(ctx, &models.CategoryInput{Title: "Orphan", Parent: strPtr("0b6f1f8e-3f57-4f0e-9a53-2a8c7f8f1d11")})
	requireKind(t, err, fault.BadRequest)

	_, err = h.services.Category.Update(ctx, c.ID, &models.CategoryInput{Title: "Self", Parent: &c.ID})
	requireKind(t, err, fault.BadRequest)
}

func TestCategoryDelete_FaultKinds(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	err := h.services.Category.Delete(ctx, "missing")
	requireKind(t, err, fault.BadRequest)

	c := h.category(t, "Broken")
	h.articleRepo.RemoveError = assert.AnError
	err = h.services.Category.Delete(ctx, c.ID)
	requireKind(t, err, fault.Internal)
}

func TestTagDelete_RemovesEveryReference(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	a1 := h.article(t, models.ArticleInput{GUID: "t1", Tags: []string{"go", "sql"}})
	a2 := h.article(t, models.ArticleInput{GUID: "t2", Tags: []string{"go"}})
	goTag, err := h.tagRepo.GetByGUID(ctx, "go")
	require.NoError(t, err)

	require.NoError(t, h.services.Tag.Delete(ctx, goTag.ID))

	assert.Len(t, h.articleRepo.Articles[a1.ID].Tags, 1)
	assert.Empty(t, h.articleRepo.Articles[a2.ID].Tags)

	// re-running the cleanup is a no-op
	n, err := h.services.Integrity.RemoveTagReferences(ctx, goTag.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTagService_CreateConflictsOnSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	tag, err := h.services.Tag.Create(ctx, &models.TagInput{Title: "Teknoloji"})
	require.NoError(t, err)
	assert.Equal(t, "teknoloji", tag.GUID)

	_, err = h.services.Tag.Create(ctx, &models.TagInput{Title: "TEKNOLOJI"})
	requireKind(t, err, fault.Conflict)

	_, err = h.services.Tag.Create(ctx, &models.TagInput{Title: "?!"})
	requireKind(t, err, fault.BadRequest)

	updated, err := h.services.Tag.Update(ctx, tag.ID, &models.TagInput{Title: "Bilim"})
	require.NoError(t, err)
	assert.Equal(t, "bilim", updated.GUID)
}

func TestIsFileInUse_Folder(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	folder, err := h.services.File.CreateFolder(ctx, &models.FolderInput{Title: "Images", Path: "/images"})
	require.NoError(t, err)

	inUse, err := h.services.Integrity.IsFileInUse(ctx, folder)
	require.NoError(t, err)
	assert.False(t, inUse)

	_, err = h.services.File.Upload(ctx, models.Upload{Filename: "a.png", FolderID: &folder.ID}, stringReader("x"))
	require.NoError(t, err)

	inUse, err = h.services.Integrity.IsFileInUse(ctx, folder)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestIsFileInUse_Leaf(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	upload := func() *models.File {
		f, err := h.services.File.Upload(ctx, models.Upload{Filename: "pic.jpg"}, stringReader("jpg"))
		require.NoError(t, err)
		return f
	}

	unused := upload()
	inUse, err := h.services.Integrity.IsFileInUse(ctx, unused)
	require.NoError(t, err)
	assert.False(t, inUse)

	cover := upload()
	h.article(t, models.ArticleInput{GUID: "covered", CoverImage: &cover.ID})
	inUse, err = h.services.Integrity.IsFileInUse(ctx, cover)
	require.NoError(t, err)
	assert.True(t, inUse)

	inArticle := upload()
	h.article(t, models.ArticleInput{GUID: "embeds", Content: `<img src="/uploads/` + upperASCII(inArticle.Filename) + `">`})
	inUse, err = h.services.Integrity.IsFileInUse(ctx, inArticle)
	require.NoError(t, err)
	assert.True(t, inUse)

	inPage := upload()
	_, err = h.services.Page.Create(ctx, &models.PageInput{Title: "Gallery", GUID: "gallery", Content: "see " + inPage.Filename})
	require.NoError(t, err)
	inUse, err = h.services.Integrity.IsFileInUse(ctx, inPage)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func strPtr(s string) *string {
	return &s
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
