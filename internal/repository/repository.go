package repository

import (
	"context"
	"database/sql"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	query.Finder[*models.Article]
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetByGUID(ctx context.Context, guid string) (*models.Article, error)
	GUIDExists(ctx context.Context, guid string) (bool, error)

	// RemoveCategories strips the given identifiers from every category
	// reference set and returns the number of articles modified.
	RemoveCategories(ctx context.Context, ids []string) (int64, error)
	// RemoveTags is RemoveCategories for tag reference sets
	RemoveTags(ctx context.Context, ids []string) (int64, error)
	// ClearCoverImages unsets cover images pointing at any of the given files
	ClearCoverImages(ctx context.Context, fileIDs []string) (int64, error)
	// ReferencedCategories returns every distinct category identifier referenced by an article
	ReferencedCategories(ctx context.Context) ([]string, error)
	ReferencedTags(ctx context.Context) ([]string, error)
	ReferencedCoverImages(ctx context.Context) ([]string, error)

	CoverImageInUse(ctx context.Context, fileID string) (bool, error)
	ContentContains(ctx context.Context, text string) (bool, error)

	// AddViewIP adds ip to the viewer set of the article with guid.
	// It returns ErrNotFound when no such article exists.
	AddViewIP(ctx context.Context, guid, ip string) error
	// AddLikedIP adds ip to the liker set and returns the resulting set size
	AddLikedIP(ctx context.Context, id, ip string) (int, error)
	HasLiked(ctx context.Context, guid, ip string) (bool, error)
}

// PageRepository defines the interface for page data operations
type PageRepository interface {
	query.Finder[*models.Page]
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Page, error)
	GetByGUID(ctx context.Context, guid string) (*models.Page, error)
	GUIDExists(ctx context.Context, guid string) (bool, error)
	ContentContains(ctx context.Context, text string) (bool, error)
	AddViewIP(ctx context.Context, guid, ip string) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	query.Finder[*models.Category]
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Category, error)
	// ClearParent detaches the direct children of id and returns how many there were
	ClearParent(ctx context.Context, id string) (int64, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	query.Finder[*models.Tag]
	// Create inserts tag and returns ErrDuplicate when its guid is taken
	Create(ctx context.Context, tag *models.Tag) error
	// GetOrCreate returns the tag with tag.GUID, inserting tag when there is
	// none. created reports whether the insert happened.
	GetOrCreate(ctx context.Context, tag *models.Tag) (stored *models.Tag, created bool, err error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	GetByGUID(ctx context.Context, guid string) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Tag, error)
}

// FileRepository defines the interface for file tree operations
type FileRepository interface {
	query.Finder[*models.File]
	Create(ctx context.Context, file *models.File) error
	Update(ctx context.Context, file *models.File) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.File, error)
	GetFolderByPath(ctx context.Context, path string) (*models.File, error)
	HasChildren(ctx context.Context, folderID string) (bool, error)
}

// SlugRepository holds the guid namespace shared by articles and pages
type SlugRepository interface {
	// Claim records ownership of a guid and returns ErrDuplicate when it is taken
	Claim(ctx context.Context, claim models.SlugClaim) error
	// Release drops the claim on guid held by ownerID. Releasing an absent claim is a no-op.
	Release(ctx context.Context, guid, ownerID string) error
	Get(ctx context.Context, guid string) (*models.SlugClaim, error)
}

// Transactor runs fn with repositories bound to one store transaction
type Transactor interface {
	InTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article  ArticleRepository
	Page     PageRepository
	Category CategoryRepository
	Tag      TagRepository
	File     FileRepository
	Slug     SlugRepository
	Tx       Transactor
}

// InTx runs fn inside a transaction. Without a Transactor fn runs against r directly.
func (r *Repositories) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx.InTx(ctx, fn)
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := bind(db.DB)
	repos.Tx = &pgTransactor{db: db}
	return repos
}

func bind(q database.Querier) *Repositories {
	return &Repositories{
		Article:  NewArticleRepo(q),
		Page:     NewPageRepo(q),
		Category: NewCategoryRepo(q),
		Tag:      NewTagRepo(q),
		File:     NewFileRepo(q),
		Slug:     NewSlugRepo(q),
	}
}

type pgTransactor struct {
	db *database.DB
}

// InTx binds a fresh set of repositories to the transaction. Nested calls
// reuse the outer transaction.
func (t *pgTransactor) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return t.db.InTx(ctx, func(tx *sql.Tx) error {
		return fn(bind(tx))
	})
}
