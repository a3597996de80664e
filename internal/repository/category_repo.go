package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
)

const categoryColumns = "id, title, description, guid, parent, sort_order, created_at, updated_at"

// CategorySchema lists the category fields available to list filters and sorts
var CategorySchema = query.Schema{
	"id":          {Name: "id", Kind: query.KindUUID},
	"title":       {Name: "title", Kind: query.KindText},
	"description": {Name: "description", Kind: query.KindText},
	"guid":        {Name: "guid", Kind: query.KindText},
	"parent":      {Name: "parent", Kind: query.KindUUID},
	"order":       {Name: "sort_order", Kind: query.KindInt},
	"createdAt":   {Name: "created_at", Kind: query.KindTime},
	"updatedAt":   {Name: "updated_at", Kind: query.KindTime},
}

type categoryRepo struct {
	db database.Querier
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db database.Querier) CategoryRepository {
	return &categoryRepo{db: db}
}

func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	var parent sql.NullString
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.GUID, &parent, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Parent = refPtr(parent)
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	q := `
		INSERT INTO categories (id, title, description, guid, parent, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Title, c.Description, c.GUID, nullRef(c.Parent), c.Order, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()

	q := `
		UPDATE categories SET title = $2, description = $3, guid = $4, parent = $5, sort_order = $6, updated_at = $7
		WHERE id = $1
	`
	return expectOne(r.db.ExecContext(ctx, q,
		c.ID, c.Title, c.Description, c.GUID, nullRef(c.Parent), c.Order, c.UpdatedAt))
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id))
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id))
	return c, translate(err)
}

// GetByIDs returns the categories that exist among ids, ordered by sort key
func (r *categoryRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Category, error) {
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}
	return r.Find(ctx, query.Plan{
		Filter: query.Where(query.In("id", ids)),
		Order:  []query.Sort{{Field: "order"}},
	})
}

func (r *categoryRepo) ClearParent(ctx context.Context, id string) (int64, error) {
	q := "UPDATE categories SET parent = NULL, updated_at = NOW() WHERE parent = $1"
	return affected(r.db.ExecContext(ctx, q, id))
}

func (r *categoryRepo) Find(ctx context.Context, plan query.Plan) ([]*models.Category, error) {
	return find(ctx, r.db, "categories", categoryColumns, CategorySchema, plan, scanCategory)
}

func (r *categoryRepo) Count(ctx context.Context, filter query.Filter) (int, error) {
	return count(ctx, r.db, "categories", CategorySchema, filter)
}
