package repository

import (
	"context"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/lib/pq"
)

const pageColumns = "id, title, description, content, guid, view_ips, created_at, updated_at"

// PageSchema lists the page fields available to list filters and sorts
var PageSchema = query.Schema{
	"id":          {Name: "id", Kind: query.KindUUID},
	"title":       {Name: "title", Kind: query.KindText},
	"description": {Name: "description", Kind: query.KindText},
	"content":     {Name: "content", Kind: query.KindText},
	"guid":        {Name: "guid", Kind: query.KindText},
	"createdAt":   {Name: "created_at", Kind: query.KindTime},
	"updatedAt":   {Name: "updated_at", Kind: query.KindTime},
}

type pageRepo struct {
	db database.Querier
}

// NewPageRepo creates a new page repository
func NewPageRepo(db database.Querier) PageRepository {
	return &pageRepo{db: db}
}

func scanPage(row scanner) (*models.Page, error) {
	var p models.Page
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Content, &p.GUID,
		pq.Array(&p.ViewIPs), &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pageRepo) Create(ctx context.Context, p *models.Page) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	q := `
		INSERT INTO pages (id, title, description, content, guid, view_ips, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Title, p.Description, p.Content, p.GUID,
		pq.Array(nonNil(p.ViewIPs)), p.CreatedAt, p.UpdatedAt,
	)
	return translate(err)
}

func (r *pageRepo) Update(ctx context.Context, p *models.Page) error {
	p.UpdatedAt = time.Now().UTC()

	q := `
		UPDATE pages SET title = $2, description = $3, content = $4, guid = $5, updated_at = $6
		WHERE id = $1
	`
	return expectOne(r.db.ExecContext(ctx, q, p.ID, p.Title, p.Description, p.Content, p.GUID, p.UpdatedAt))
}

func (r *pageRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM pages WHERE id = $1", id))
}

func (r *pageRepo) GetByID(ctx context.Context, id string) (*models.Page, error) {
	p, err := scanPage(r.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE id = $1", id))
	return p, translate(err)
}

func (r *pageRepo) GetByGUID(ctx context.Context, guid string) (*models.Page, error) {
	p, err := scanPage(r.db.QueryRowContext(ctx, "SELECT "+pageColumns+" FROM pages WHERE guid = $1", guid))
	return p, translate(err)
}

func (r *pageRepo) GUIDExists(ctx context.Context, guid string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM pages WHERE guid = $1", guid)
}

func (r *pageRepo) Find(ctx context.Context, plan query.Plan) ([]*models.Page, error) {
	return find(ctx, r.db, "pages", pageColumns, PageSchema, plan, scanPage)
}

func (r *pageRepo) Count(ctx context.Context, filter query.Filter) (int, error) {
	return count(ctx, r.db, "pages", PageSchema, filter)
}

func (r *pageRepo) ContentContains(ctx context.Context, text string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM pages WHERE content ILIKE $1", likePattern(text))
}

func (r *pageRepo) AddViewIP(ctx context.Context, guid, ip string) error {
	q := `
		UPDATE pages SET view_ips = CASE
			WHEN $2::text = ANY(view_ips) THEN view_ips
			ELSE array_append(view_ips, $2::text)
		END
		WHERE guid = $1
	`
	return expectOne(r.db.ExecContext(ctx, q, guid, ip))
}
