package repository

import (
	"context"
	"errors"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
)

const tagColumns = "id, title, guid, created_at, updated_at"

// TagSchema lists the tag fields available to list filters and sorts
var TagSchema = query.Schema{
	"id":        {Name: "id", Kind: query.KindUUID},
	"title":     {Name: "title", Kind: query.KindText},
	"guid":      {Name: "guid", Kind: query.KindText},
	"createdAt": {Name: "created_at", Kind: query.KindTime},
	"updatedAt": {Name: "updated_at", Kind: query.KindTime},
}

type tagRepo struct {
	db database.Querier
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db database.Querier) TagRepository {
	return &tagRepo{db: db}
}

func scanTag(row scanner) (*models.Tag, error) {
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Title, &t.GUID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func stamp(t *models.Tag) {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

func (r *tagRepo) Create(ctx context.Context, t *models.Tag) error {
	stamp(t)
	q := "INSERT INTO tags (id, title, guid, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)"
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Title, t.GUID, t.CreatedAt, t.UpdatedAt)
	return translate(err)
}

// GetOrCreate inserts t unless a tag with the same guid exists. The unique
// index on guid makes concurrent callers converge on one row.
func (r *tagRepo) GetOrCreate(ctx context.Context, t *models.Tag) (*models.Tag, bool, error) {
	stamp(t)
	q := `
		INSERT INTO tags (id, title, guid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (guid) DO NOTHING
		RETURNING ` + tagColumns
	created, err := scanTag(r.db.QueryRowContext(ctx, q, t.ID, t.Title, t.GUID, t.CreatedAt, t.UpdatedAt))
	if err == nil {
		return created, true, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	existing, err := r.GetByGUID(ctx, t.GUID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *tagRepo) Update(ctx context.Context, t *models.Tag) error {
	t.UpdatedAt = time.Now().UTC()
	q := "UPDATE tags SET title = $2, guid = $3, updated_at = $4 WHERE id = $1"
	return expectOne(r.db.ExecContext(ctx, q, t.ID, t.Title, t.GUID, t.UpdatedAt))
}

func (r *tagRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM tags WHERE id = $1", id))
}

func (r *tagRepo) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	t, err := scanTag(r.db.QueryRowContext(ctx, "SELECT "+tagColumns+" FROM tags WHERE id = $1", id))
	return t, translate(err)
}

func (r *tagRepo) GetByGUID(ctx context.Context, guid string) (*models.Tag, error) {
	t, err := scanTag(r.db.QueryRowContext(ctx, "SELECT "+tagColumns+" FROM tags WHERE guid = $1", guid))
	return t, translate(err)
}

// GetByIDs returns the tags that exist among ids, ordered by title
func (r *tagRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return []*models.Tag{}, nil
	}
	return r.Find(ctx, query.Plan{
		Filter: query.Where(query.In("id", ids)),
		Order:  []query.Sort{{Field: "title"}},
	})
}

func (r *tagRepo) Find(ctx context.Context, plan query.Plan) ([]*models.Tag, error) {
	return find(ctx, r.db, "tags", tagColumns, TagSchema, plan, scanTag)
}

func (r *tagRepo) Count(ctx context.Context, filter query.Filter) (int, error) {
	return count(ctx, r.db, "tags", TagSchema, filter)
}
