package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
)

type statsService struct {
	repos *repository.Repositories
}

func newStatsService(repos *repository.Repositories) *statsService {
	return &statsService{repos: repos}
}

func (s *statsService) Counts(ctx context.Context) (*models.Counts, error) {
	var counts models.Counts
	var err error

	if counts.Articles, err = s.repos.Article.Count(ctx, nil); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "failed to count articles")
	}
	if counts.Pages, err = s.repos.Page.Count(ctx, nil); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "failed to count pages")
	}
	if counts.Categories, err = s.repos.Category.Count(ctx, nil); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "failed to count categories")
	}
	if counts.Tags, err = s.repos.Tag.Count(ctx, nil); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "failed to count tags")
	}
	if counts.Files, err = s.repos.File.Count(ctx, nil); err != nil {
		return nil, fault.Wrap(fault.Internal, err, "failed to count files")
	}
	return &counts, nil
}
