package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/lib/pq"
)

const articleColumns = `id, title, description, content, guid, categories, tags, cover_image,
	view_ips, liked_ips, created_at, updated_at`

// ArticleSchema lists the article fields available to list filters and sorts
var ArticleSchema = query.Schema{
	"id":          {Name: "id", Kind: query.KindUUID},
	"title":       {Name: "title", Kind: query.KindText},
	"description": {Name: "description", Kind: query.KindText},
	"content":     {Name: "content", Kind: query.KindText},
	"guid":        {Name: "guid", Kind: query.KindText},
	"categories":  {Name: "categories", Kind: query.KindArray},
	"tags":        {Name: "tags", Kind: query.KindArray},
	"coverImage":  {Name: "cover_image", Kind: query.KindUUID},
	"createdAt":   {Name: "created_at", Kind: query.KindTime},
	"updatedAt":   {Name: "updated_at", Kind: query.KindTime},
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db database.Querier
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db database.Querier) ArticleRepository {
	return &articleRepo{db: db}
}

func scanArticle(row scanner) (*models.Article, error) {
	var a models.Article
	var coverImage sql.NullString
	err := row.Scan(
		&a.ID, &a.Title, &a.Description, &a.Content, &a.GUID,
		pq.Array(&a.Categories), pq.Array(&a.Tags), &coverImage,
		pq.Array(&a.ViewIPs), pq.Array(&a.LikedIPs), &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CoverImage = refPtr(coverImage)
	return &a, nil
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	q := `
		INSERT INTO articles (id, title, description, content, guid, categories, tags, cover_image,
			view_ips, liked_ips, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.Content, a.GUID,
		pq.Array(nonNil(a.Categories)), pq.Array(nonNil(a.Tags)), nullRef(a.CoverImage),
		pq.Array(nonNil(a.ViewIPs)), pq.Array(nonNil(a.LikedIPs)), a.CreatedAt, a.UpdatedAt,
	)
	return translate(err)
}

// Update replaces the editable fields of an article. Viewer and liker sets are left alone.
func (r *articleRepo) Update(ctx context.Context, a *models.Article) error {
	a.UpdatedAt = time.Now().UTC()

	q := `
		UPDATE articles SET
			title = $2, description = $3, content = $4, guid = $5,
			categories = $6, tags = $7, cover_image = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		a.ID, a.Title, a.Description, a.Content, a.GUID,
		pq.Array(nonNil(a.Categories)), pq.Array(nonNil(a.Tags)), nullRef(a.CoverImage), a.UpdatedAt,
	)
	return expectOne(res, err)
}

// Delete removes an article
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id))
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = $1", id)
	a, err := scanArticle(row)
	return a, translate(err)
}

// GetByGUID retrieves an article by guid
func (r *articleRepo) GetByGUID(ctx context.Context, guid string) (*models.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE guid = $1", guid)
	a, err := scanArticle(row)
	return a, translate(err)
}

// GUIDExists checks if an article with the given guid exists
func (r *articleRepo) GUIDExists(ctx context.Context, guid string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM articles WHERE guid = $1", guid)
}

// Find lists articles matching plan
func (r *articleRepo) Find(ctx context.Context, plan query.Plan) ([]*models.Article, error) {
	return find(ctx, r.db, "articles", articleColumns, ArticleSchema, plan, scanArticle)
}

// Count counts articles matching filter
func (r *articleRepo) Count(ctx context.Context, filter query.Filter) (int, error) {
	return count(ctx, r.db, "articles", ArticleSchema, filter)
}

// RemoveCategories strips ids from every category reference set, keeping the
// order of the remaining references.
func (r *articleRepo) RemoveCategories(ctx context.Context, ids []string) (int64, error) {
	return r.removeRefs(ctx, "categories", ids)
}

// RemoveTags strips ids from every tag reference set
func (r *articleRepo) RemoveTags(ctx context.Context, ids []string) (int64, error) {
	return r.removeRefs(ctx, "tags", ids)
}

func (r *articleRepo) removeRefs(ctx context.Context, column string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `
		UPDATE articles SET ` + column + ` = ARRAY(
			SELECT ref FROM unnest(` + column + `) WITH ORDINALITY AS u(ref, n)
			WHERE ref <> ALL($1::uuid[])
			ORDER BY n
		), updated_at = NOW()
		WHERE ` + column + ` && $1::uuid[]
	`
	return affected(r.db.ExecContext(ctx, q, pq.Array(ids)))
}

// ClearCoverImages unsets cover images that point at any of fileIDs
func (r *articleRepo) ClearCoverImages(ctx context.Context, fileIDs []string) (int64, error) {
	if len(fileIDs) == 0 {
		return 0, nil
	}
	q := `UPDATE articles SET cover_image = NULL, updated_at = NOW() WHERE cover_image = ANY($1::uuid[])`
	return affected(r.db.ExecContext(ctx, q, pq.Array(fileIDs)))
}

// ReferencedCategories returns every category identifier used by some article
func (r *articleRepo) ReferencedCategories(ctx context.Context) ([]string, error) {
	return distinct(ctx, r.db, "SELECT DISTINCT unnest(categories)::text FROM articles")
}

// ReferencedTags returns every tag identifier used by some article
func (r *articleRepo) ReferencedTags(ctx context.Context) ([]string, error) {
	return distinct(ctx, r.db, "SELECT DISTINCT unnest(tags)::text FROM articles")
}

// ReferencedCoverImages returns every file identifier used as a cover image
func (r *articleRepo) ReferencedCoverImages(ctx context.Context) ([]string, error) {
	return distinct(ctx, r.db, "SELECT DISTINCT cover_image::text FROM articles WHERE cover_image IS NOT NULL")
}

// CoverImageInUse checks whether any article uses fileID as its cover image
func (r *articleRepo) CoverImageInUse(ctx context.Context, fileID string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM articles WHERE cover_image = $1", fileID)
}

// ContentContains checks whether any article body contains text, ignoring case
func (r *articleRepo) ContentContains(ctx context.Context, text string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM articles WHERE content ILIKE $1", likePattern(text))
}

// AddViewIP adds ip to the viewer set. A repeated ip leaves the set unchanged.
func (r *articleRepo) AddViewIP(ctx context.Context, guid, ip string) error {
	q := `
		UPDATE articles SET view_ips = CASE
			WHEN $2::text = ANY(view_ips) THEN view_ips
			ELSE array_append(view_ips, $2::text)
		END
		WHERE guid = $1
	`
	return expectOne(r.db.ExecContext(ctx, q, guid, ip))
}

// AddLikedIP adds ip to the liker set and returns its size
func (r *articleRepo) AddLikedIP(ctx context.Context, id, ip string) (int, error) {
	q := `
		UPDATE articles SET liked_ips = CASE
			WHEN $2::text = ANY(liked_ips) THEN liked_ips
			ELSE array_append(liked_ips, $2::text)
		END
		WHERE id = $1
		RETURNING cardinality(liked_ips)
	`
	var n int
	err := r.db.QueryRowContext(ctx, q, id, ip).Scan(&n)
	return n, translate(err)
}

// HasLiked checks whether ip is in the liker set of the article with guid
func (r *articleRepo) HasLiked(ctx context.Context, guid, ip string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM articles WHERE guid = $1 AND $2 = ANY(liked_ips)", guid, ip)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
