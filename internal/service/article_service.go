package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos    *repository.Repositories
	tags     TagProvisioner
	guids    *guidRegistry
	counters Counters
	log      zerolog.Logger
}

func newArticleService(repos *repository.Repositories, tags TagProvisioner, guids *guidRegistry, counters Counters, log zerolog.Logger) *articleService {
	return &articleService{
		repos:    repos,
		tags:     tags,
		guids:    guids,
		counters: counters,
		log:      log.With().Str("service", "article").Logger(),
	}
}

func (s *articleService) List(ctx context.Context, q query.Query, scope ArticleScope) (*query.ListResult[*models.ArticleView], error) {
	var scopes []query.Condition
	if scope.Category != "" {
		scopes = append(scopes, query.Contains("categories", scope.Category))
	}
	if scope.Tag != "" {
		scopes = append(scopes, query.Contains("tags", scope.Tag))
	}

	result, err := query.Run[*models.Article](ctx, s.repos.Article, q, scopes...)
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "invalid article query")
	}
	return query.Map(result, func(articles []*models.Article) ([]*models.ArticleView, error) {
		return s.views(ctx, articles)
	})
}

func (s *articleService) Get(ctx context.Context, id string) (*models.ArticleView, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "article")
	}
	return s.view(ctx, article)
}

func (s *articleService) GetByGUID(ctx context.Context, guid, viewerIP string) (*models.ArticleView, error) {
	if viewerIP != "" {
		if err := s.counters.RecordArticleView(ctx, guid, viewerIP); err != nil {
			return nil, err
		}
	}
	article, err := s.repos.Article.GetByGUID(ctx, guid)
	if err != nil {
		return nil, lookupFault(err, "article")
	}
	return s.view(ctx, article)
}

func (s *articleService) Create(ctx context.Context, in *models.ArticleInput) (*models.ArticleView, error) {
	if err := invalid(validation.ValidateArticle(in)); err != nil {
		return nil, err
	}
	if err := s.guids.check(ctx, in.GUID); err != nil {
		return nil, err
	}

	tagIDs, err := s.provision(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	article := &models.Article{ID: uuid.NewString()}
	apply(article, in, tagIDs)

	err = s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := claim(ctx, tx, models.SlugKindArticle, article.GUID, article.ID); err != nil {
			return err
		}
		return tx.Article.Create(ctx, article)
	})
	if err != nil {
		return nil, writeFault(err, fault.Internal, "failed to create article", guidConflict(in.GUID).Message)
	}

	s.log.Info().Str("article_id", article.ID).Str("guid", article.GUID).Int("tags", len(article.Tags)).Msg("Article created")
	return s.view(ctx, article)
}

func (s *articleService) Update(ctx context.Context, id string, in *models.ArticleInput) (*models.ArticleView, error) {
	if err := invalid(validation.ValidateArticle(in)); err != nil {
		return nil, err
	}
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "article")
	}
	previousGUID := article.GUID
	if in.GUID != previousGUID {
		if err := s.guids.check(ctx, in.GUID); err != nil {
			return nil, err
		}
	}

	tagIDs, err := s.provision(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	apply(article, in, tagIDs)

	err = s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := move(ctx, tx, models.SlugKindArticle, previousGUID, article.GUID, article.ID); err != nil {
			return err
		}
		return tx.Article.Update(ctx, article)
	})
	if err != nil {
		return nil, writeFault(err, fault.BadRequest, "failed to update article", guidConflict(in.GUID).Message)
	}
	return s.view(ctx, article)
}

func (s *articleService) Delete(ctx context.Context, id string) error {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return lookupFault(err, "article")
	}
	err = s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Article.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Slug.Release(ctx, article.GUID, article.ID)
	})
	if err != nil {
		return writeFault(err, fault.BadRequest, "failed to delete article", "")
	}
	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}

func (s *articleService) Like(ctx context.Context, id, ip string) (*models.LikeResult, error) {
	n, err := s.counters.RecordLike(ctx, id, ip)
	if err != nil {
		return nil, err
	}
	return &models.LikeResult{LikeCount: n, Liked: true}, nil
}

func (s *articleService) HasLiked(ctx context.Context, guid, ip string) (bool, error) {
	return s.counters.HasLiked(ctx, guid, ip)
}

func (s *articleService) provision(ctx context.Context, labels []string) ([]string, error) {
	provisioned, err := s.tags.Provision(ctx, labels)
	if err != nil {
		return nil, err
	}
	return TagIDs(provisioned), nil
}

// apply copies the editable fields of in onto a
func apply(a *models.Article, in *models.ArticleInput, tagIDs []string) {
	a.Title = in.Title
	a.Description = in.Description
	a.Content = in.Content
	a.GUID = in.GUID
	a.Categories = dedupe(in.Categories)
	a.Tags = tagIDs
	a.CoverImage = in.CoverImage
}

func (s *articleService) view(ctx context.Context, a *models.Article) (*models.ArticleView, error) {
	views, err := s.views(ctx, []*models.Article{a})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// views resolves the references of articles into embedded documents.
// References that no longer resolve are left out.
func (s *articleService) views(ctx context.Context, articles []*models.Article) ([]*models.ArticleView, error) {
	var categoryIDs, tagIDs, fileIDs []string
	for _, a := range articles {
		categoryIDs = append(categoryIDs, a.Categories...)
		tagIDs = append(tagIDs, a.Tags...)
		if a.CoverImage != nil {
			fileIDs = append(fileIDs, *a.CoverImage)
		}
	}

	categories, err := s.repos.Category.GetByIDs(ctx, dedupe(categoryIDs))
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "failed to load categories")
	}
	tags, err := s.repos.Tag.GetByIDs(ctx, dedupe(tagIDs))
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "failed to load tags")
	}
	files, err := s.repos.File.GetByIDs(ctx, dedupe(fileIDs))
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "failed to load cover images")
	}

	categoryByID := make(map[string]*models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	tagByID := make(map[string]*models.Tag, len(tags))
	for _, t := range tags {
		tagByID[t.ID] = t
	}
	fileByID := make(map[string]*models.File, len(files))
	for _, f := range files {
		fileByID[f.ID] = f
	}

	views := make([]*models.ArticleView, len(articles))
	for i, a := range articles {
		v := &models.ArticleView{
			Article:    a,
			Categories: make([]models.Category, 0, len(a.Categories)),
			Tags:       make([]models.Tag, 0, len(a.Tags)),
			ViewCount:  len(a.ViewIPs),
			LikeCount:  len(a.LikedIPs),
		}
		for _, id := range a.Categories {
			if c, ok := categoryByID[id]; ok {
				v.Categories = append(v.Categories, *c)
			}
		}
		for _, id := range a.Tags {
			if t, ok := tagByID[id]; ok {
				v.Tags = append(v.Tags, *t)
			}
		}
		if a.CoverImage != nil {
			v.CoverImage = fileByID[*a.CoverImage]
		}
		views[i] = v
	}
	return views, nil
}

// dedupe drops repeated values, keeping the first occurrence
func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
