package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/mocks"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	services     *service.Services
	repos        *repository.Repositories
	articleRepo  *mocks.MockArticleRepository
	pageRepo     *mocks.MockPageRepository
	categoryRepo *mocks.MockCategoryRepository
	tagRepo      *mocks.MockTagRepository
	fileRepo     *mocks.MockFileRepository
	slugRepo     *mocks.MockSlugRepository
	storage      *mocks.MockStorage
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	repos := mocks.NewRepositories()
	storage := mocks.NewMockStorage()
	cfg := &config.Config{
		Content: config.ContentConfig{SlugLocale: "tr", DefaultPageSize: 10, MaxPageSize: 100},
	}

	return &testHarness{
		services:     service.NewServices(repos, storage, cfg, zerolog.Nop()),
		repos:        repos,
		articleRepo:  repos.Article.(*mocks.MockArticleRepository),
		pageRepo:     repos.Page.(*mocks.MockPageRepository),
		categoryRepo: repos.Category.(*mocks.MockCategoryRepository),
		tagRepo:      repos.Tag.(*mocks.MockTagRepository),
		fileRepo:     repos.File.(*mocks.MockFileRepository),
		slugRepo:     repos.Slug.(*mocks.MockSlugRepository),
		storage:      storage,
	}
}

func (h *testHarness) category(t *testing.T, title string) *models.Category {
	t.Helper()
	c, err := h.services.Category.Create(context.Background(), &models.CategoryInput{Title: title})
	require.NoError(t, err)
	return c
}

func (h *testHarness) article(t *testing.T, in models.ArticleInput) *models.ArticleView {
	t.Helper()
	if in.Title == "" {
		in.Title = "Article " + in.GUID
	}
	a, err := h.services.Article.Create(context.Background(), &in)
	require.NoError(t, err)
	return a
}

// requireKind asserts that err is a fault of kind k
func requireKind(t *testing.T, err error, k fault.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, k, fault.KindOf(err), "unexpected fault kind for %v", err)
}

func stringReader(s string) io.Reader {
	return strings.NewReader(s)
}
