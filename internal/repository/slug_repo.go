package repository

import (
	"context"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
)

type slugRepo struct {
	db database.Querier
}

// NewSlugRepo creates the repository for the shared article/page guid namespace
func NewSlugRepo(db database.Querier) SlugRepository {
	return &slugRepo{db: db}
}

func (r *slugRepo) Claim(ctx context.Context, c models.SlugClaim) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO guids (guid, kind, owner_id) VALUES ($1, $2, $3)",
		c.GUID, string(c.Kind), c.OwnerID)
	return translate(err)
}

func (r *slugRepo) Release(ctx context.Context, guid, ownerID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM guids WHERE guid = $1 AND owner_id = $2", guid, ownerID)
	return err
}

func (r *slugRepo) Get(ctx context.Context, guid string) (*models.SlugClaim, error) {
	var c models.SlugClaim
	err := r.db.QueryRowContext(ctx, "SELECT guid, kind, owner_id FROM guids WHERE guid = $1", guid).
		Scan(&c.GUID, &c.Kind, &c.OwnerID)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}
