package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/mocks"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_RemovesDanglingReferences(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	kept := h.category(t, "Kept")
	gone := h.category(t, "Gone")
	cover, err := h.services.File.Upload(ctx, models.Upload{Filename: "c.png"}, stringReader("c"))
	require.NoError(t, err)
	a := h.article(t, models.ArticleInput{
		GUID:       "stale",
		Categories: []string{kept.ID, gone.ID},
		Tags:       []string{"x", "y"},
		CoverImage: &cover.ID,
	})

	// deletions that bypassed the integrity maintainer
	delete(h.categoryRepo.Categories, gone.ID)
	xTag, err := h.tagRepo.GetByGUID(ctx, "x")
	require.NoError(t, err)
	delete(h.tagRepo.Tags, xTag.ID)
	delete(h.fileRepo.Files, cover.ID)

	report, err := h.services.Reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MissingCategories)
	assert.Equal(t, 1, report.MissingTags)
	assert.Equal(t, 1, report.MissingCoverImages)
	assert.Equal(t, int64(3), report.Modified)

	stored := h.articleRepo.Articles[a.ID]
	assert.Equal(t, []string{kept.ID}, stored.Categories)
	assert.Len(t, stored.Tags, 1)
	assert.NotContains(t, stored.Tags, xTag.ID)
	assert.Nil(t, stored.CoverImage)

	again, err := h.services.Reconciler.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, &service.ReconcileReport{}, again)
}

func TestReconciler_StartStop(t *testing.T) {
	cfg := &config.Config{
		Content:   config.ContentConfig{SlugLocale: "tr"},
		Reconcile: config.ReconcileConfig{Interval: 10 * time.Millisecond},
	}
	services := service.NewServices(mocks.NewRepositories(), mocks.NewMockStorage(), cfg, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		services.Reconciler.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		// Stop is a no-op until Start has registered
		services.Reconciler.Stop()
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestReconciler_RestartsAfterContextCancel(t *testing.T) {
	cfg := &config.Config{
		Content:   config.ContentConfig{SlugLocale: "tr"},
		Reconcile: config.ReconcileConfig{Interval: 10 * time.Millisecond},
	}
	repos := mocks.NewRepositories()
	services := service.NewServices(repos, mocks.NewMockStorage(), cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan struct{})
	go func() {
		services.Reconciler.Start(ctx)
		close(first)
	}()
	cancel()
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("Start should return once its context is cancelled")
	}

	article := &models.Article{ID: uuid.NewString(), Title: "Orphan", GUID: "orphan", Categories: []string{uuid.NewString()}}
	require.NoError(t, repos.Article.Create(context.Background(), article))

	second := make(chan struct{})
	go func() {
		services.Reconciler.Start(context.Background())
		close(second)
	}()
	t.Cleanup(func() {
		services.Reconciler.Stop()
		<-second
	})

	require.Eventually(t, func() bool {
		stored, err := repos.Article.GetByID(context.Background(), article.ID)
		return err == nil && len(stored.Categories) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestReconciler_DisabledReturnsImmediately(t *testing.T) {
	h := newTestHarness(t)

	done := make(chan struct{})
	go func() {
		h.services.Reconciler.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return when the interval is zero")
	}
}
