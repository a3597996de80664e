package service

import (
	"context"
	"io"

	"github.com/content-graph-api/internal/config"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleScope restricts an article listing to one category and/or tag
type ArticleScope struct {
	Category string
	Tag      string
}

// ArticleService defines the interface for article operations
type ArticleService interface {
	List(ctx context.Context, q query.Query, scope ArticleScope) (*query.ListResult[*models.ArticleView], error)
	Get(ctx context.Context, id string) (*models.ArticleView, error)
	// GetByGUID returns the article and records a view from viewerIP when it is set
	GetByGUID(ctx context.Context, guid, viewerIP string) (*models.ArticleView, error)
	Create(ctx context.Context, in *models.ArticleInput) (*models.ArticleView, error)
	Update(ctx context.Context, id string, in *models.ArticleInput) (*models.ArticleView, error)
	Delete(ctx context.Context, id string) error
	Like(ctx context.Context, id, ip string) (*models.LikeResult, error)
	HasLiked(ctx context.Context, guid, ip string) (bool, error)
}

// PageService defines the interface for page operations
type PageService interface {
	List(ctx context.Context, q query.Query) (*query.ListResult[*models.PageView], error)
	Get(ctx context.Context, id string) (*models.PageView, error)
	GetByGUID(ctx context.Context, guid, viewerIP string) (*models.PageView, error)
	Create(ctx context.Context, in *models.PageInput) (*models.PageView, error)
	Update(ctx context.Context, id string, in *models.PageInput) (*models.PageView, error)
	Delete(ctx context.Context, id string) error
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	List(ctx context.Context, q query.Query) (*query.ListResult[*models.Category], error)
	Get(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in *models.CategoryInput) (*models.Category, error)
	// Delete removes the category and every reference to it
	Delete(ctx context.Context, id string) error
}

// TagService defines the interface for tag operations
type TagService interface {
	List(ctx context.Context, q query.Query) (*query.ListResult[*models.Tag], error)
	Get(ctx context.Context, id string) (*models.Tag, error)
	Create(ctx context.Context, in *models.TagInput) (*models.Tag, error)
	Update(ctx context.Context, id string, in *models.TagInput) (*models.Tag, error)
	// Delete removes the tag and every reference to it
	Delete(ctx context.Context, id string) error
}

// FileService defines the interface for the upload tree
type FileService interface {
	// List lists the direct children of folderID, or the root when it is nil
	List(ctx context.Context, q query.Query, folderID *string) (*query.ListResult[*models.File], error)
	Get(ctx context.Context, id string) (*models.File, error)
	// CreateFolder returns the folder at in.Path, creating it when missing
	CreateFolder(ctx context.Context, in *models.FolderInput) (*models.File, error)
	Upload(ctx context.Context, up models.Upload, content io.Reader) (*models.File, error)
	Update(ctx context.Context, id string, in *models.FileUpdateInput) (*models.File, error)
	// Delete refuses files that are still in use
	Delete(ctx context.Context, id string) error
}

// StatsService reports collection sizes
type StatsService interface {
	Counts(ctx context.Context) (*models.Counts, error)
}

// Services holds all service interfaces
type Services struct {
	Article    ArticleService
	Page       PageService
	Category   CategoryService
	Tag        TagService
	File       FileService
	Stats      StatsService
	Tags       TagProvisioner
	Guids      GuidRegistry
	Integrity  IntegrityMaintainer
	Counters   Counters
	Reconciler Reconciler
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, storage Storage, cfg *config.Config, log zerolog.Logger) *Services {
	locale := cfg.Content.Locale()

	tags := newTagProvisioner(repos.Tag, locale, log)
	guids := newGuidRegistry(repos)
	integrity := newIntegrityMaintainer(repos, log)
	counters := newCounters(repos, log)

	return &Services{
		Article:    newArticleService(repos, tags, guids, counters, log),
		Page:       newPageService(repos, guids, counters, log),
		Category:   newCategoryService(repos, integrity, locale, log),
		Tag:        newTagService(repos, integrity, locale, log),
		File:       newFileService(repos, integrity, storage, log),
		Stats:      newStatsService(repos),
		Tags:       tags,
		Guids:      guids,
		Integrity:  integrity,
		Counters:   counters,
		Reconciler: newReconciler(repos, cfg.Reconcile.Interval, log),
	}
}
