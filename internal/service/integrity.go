package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/rs/zerolog"
)

// IntegrityMaintainer keeps cross-collection references consistent. The store
// enforces no foreign keys, so every deletion path goes through here.
type IntegrityMaintainer interface {
	// RemoveCategoryReferences strips categoryID from every article. Re-running it is a no-op.
	RemoveCategoryReferences(ctx context.Context, categoryID string) (int64, error)
	// RemoveTagReferences strips tagID from every article. Re-running it is a no-op.
	RemoveTagReferences(ctx context.Context, tagID string) (int64, error)
	// IsFileInUse reports whether file may not be deleted. A folder is in use
	// while it has children. A leaf is in use while it is an article cover
	// image or its filename appears in article or page content, ignoring case.
	IsFileInUse(ctx context.Context, file *models.File) (bool, error)
}

type integrityMaintainer struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newIntegrityMaintainer(repos *repository.Repositories, log zerolog.Logger) *integrityMaintainer {
	return &integrityMaintainer{
		repos: repos,
		log:   log.With().Str("component", "integrity").Logger(),
	}
}

// bind returns a maintainer operating on the repositories of a transaction
func (m *integrityMaintainer) bind(tx *repository.Repositories) *integrityMaintainer {
	return &integrityMaintainer{repos: tx, log: m.log}
}

func (m *integrityMaintainer) RemoveCategoryReferences(ctx context.Context, categoryID string) (int64, error) {
	n, err := m.repos.Article.RemoveCategories(ctx, []string{categoryID})
	if err != nil {
		return 0, fault.Wrap(fault.Internal, err, "failed to remove category references")
	}
	m.log.Info().Str("category_id", categoryID).Int64("modified", n).Msg("Category references removed")
	return n, nil
}

func (m *integrityMaintainer) RemoveTagReferences(ctx context.Context, tagID string) (int64, error) {
	n, err := m.repos.Article.RemoveTags(ctx, []string{tagID})
	if err != nil {
		return 0, fault.Wrap(fault.Internal, err, "failed to remove tag references")
	}
	m.log.Info().Str("tag_id", tagID).Int64("modified", n).Msg("Tag references removed")
	return n, nil
}

func (m *integrityMaintainer) IsFileInUse(ctx context.Context, file *models.File) (bool, error) {
	inUse, err := m.fileInUse(ctx, file)
	if err != nil {
		return false, fault.Wrap(fault.BadRequest, err, "failed to check file usage")
	}
	return inUse, nil
}

func (m *integrityMaintainer) fileInUse(ctx context.Context, file *models.File) (bool, error) {
	if file.IsFolder {
		return m.repos.File.HasChildren(ctx, file.ID)
	}

	used, err := m.repos.Article.CoverImageInUse(ctx, file.ID)
	if err != nil || used {
		return used, err
	}
	if file.Filename == "" {
		return false, nil
	}

	// Content links are not tracked; a filename mention counts as a use.
	used, err = m.repos.Article.ContentContains(ctx, file.Filename)
	if err != nil || used {
		return used, err
	}
	return m.repos.Page.ContentContains(ctx, file.Filename)
}
