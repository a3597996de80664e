package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/rs/zerolog"
)

// Counters records views and likes as sets of client IPs. Repeated visits
// from the same IP are absorbed.
type Counters interface {
	RecordArticleView(ctx context.Context, guid, ip string) error
	RecordPageView(ctx context.Context, guid, ip string) error
	// RecordLike adds ip to the article's likers and returns the like count
	RecordLike(ctx context.Context, articleID, ip string) (int, error)
	HasLiked(ctx context.Context, guid, ip string) (bool, error)
}

type counters struct {
	articles repository.ArticleRepository
	pages    repository.PageRepository
	log      zerolog.Logger
}

func newCounters(repos *repository.Repositories, log zerolog.Logger) *counters {
	return &counters{
		articles: repos.Article,
		pages:    repos.Page,
		log:      log.With().Str("component", "counters").Logger(),
	}
}

func (c *counters) RecordArticleView(ctx context.Context, guid, ip string) error {
	if err := invalid(validation.ValidateIP(ip)); err != nil {
		return err
	}
	if err := c.articles.AddViewIP(ctx, guid, ip); err != nil {
		return lookupFault(err, "article")
	}
	return nil
}

func (c *counters) RecordPageView(ctx context.Context, guid, ip string) error {
	if err := invalid(validation.ValidateIP(ip)); err != nil {
		return err
	}
	if err := c.pages.AddViewIP(ctx, guid, ip); err != nil {
		return lookupFault(err, "page")
	}
	return nil
}

func (c *counters) RecordLike(ctx context.Context, articleID, ip string) (int, error) {
	if err := invalid(validation.ValidateIP(ip)); err != nil {
		return 0, err
	}
	n, err := c.articles.AddLikedIP(ctx, articleID, ip)
	if err != nil {
		return 0, lookupFault(err, "article")
	}
	c.log.Debug().Str("article_id", articleID).Int("likes", n).Msg("Like recorded")
	return n, nil
}

func (c *counters) HasLiked(ctx context.Context, guid, ip string) (bool, error) {
	liked, err := c.articles.HasLiked(ctx, guid, ip)
	if err != nil {
		return false, fault.Wrap(fault.BadRequest, err, "failed to check like")
	}
	return liked, nil
}
