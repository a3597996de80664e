package service_test

import (
	"context"
	"testing"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters_RepeatViewIsAbsorbed(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	h.article(t, models.ArticleInput{GUID: "viewed"})

	for i := 0; i < 3; i++ {
		require.NoError(t, h.services.Counters.RecordArticleView(ctx, "viewed", "192.168.1.1"))
	}
	got, err := h.services.Article.GetByGUID(ctx, "viewed", "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)
}

func TestCounters_TwoDistinctIPsAddTwo(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	h.article(t, models.ArticleInput{GUID: "popular"})

	before, err := h.services.Article.GetByGUID(ctx, "popular", "")
	require.NoError(t, err)

	_, err = h.services.Article.GetByGUID(ctx, "popular", "10.0.0.1")
	require.NoError(t, err)
	after, err := h.services.Article.GetByGUID(ctx, "popular", "2001:db8::1")
	require.NoError(t, err)

	assert.Equal(t, before.ViewCount+2, after.ViewCount)
}

func TestCounters_Likes(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	a := h.article(t, models.ArticleInput{GUID: "liked"})

	res, err := h.services.Article.Like(ctx, a.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikeCount)
	assert.True(t, res.Liked)

	res, err = h.services.Article.Like(ctx, a.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikeCount)

	n, err := h.services.Counters.RecordLike(ctx, a.ID, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	liked, err := h.services.Article.HasLiked(ctx, "liked", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = h.services.Article.HasLiked(ctx, "liked", "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestCounters_Faults(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()
	h.article(t, models.ArticleInput{GUID: "exists"})

	err := h.services.Counters.RecordArticleView(ctx, "exists", "not-an-ip")
	requireKind(t, err, fault.BadRequest)

	err = h.services.Counters.RecordArticleView(ctx, "missing", "10.0.0.1")
	requireKind(t, err, fault.BadRequest)

	err = h.services.Counters.RecordPageView(ctx, "missing", "10.0.0.1")
	requireKind(t, err, fault.BadRequest)

	_, err = h.services.Counters.RecordLike(ctx, "missing", "10.0.0.1")
	requireKind(t, err, fault.BadRequest)
}
