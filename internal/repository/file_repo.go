package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/content-graph-api/internal/database"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
)

const fileColumns = "id, title, description, filename, is_folder, mimetype, path, size, folder_id, created_at, updated_at"

// FileSchema lists the file fields available to list filters and sorts
var FileSchema = query.Schema{
	"id":          {Name: "id", Kind: query.KindUUID},
	"title":       {Name: "title", Kind: query.KindText},
	"description": {Name: "description", Kind: query.KindText},
	"filename":    {Name: "filename", Kind: query.KindText},
	"isFolder":    {Name: "is_folder", Kind: query.KindBool},
	"mimetype":    {Name: "mimetype", Kind: query.KindText},
	"path":        {Name: "path", Kind: query.KindText},
	"size":        {Name: "size", Kind: query.KindInt},
	"folderId":    {Name: "folder_id", Kind: query.KindUUID},
	"createdAt":   {Name: "created_at", Kind: query.KindTime},
	"updatedAt":   {Name: "updated_at", Kind: query.KindTime},
}

type fileRepo struct {
	db database.Querier
}

// NewFileRepo creates a new file repository
func NewFileRepo(db database.Querier) FileRepository {
	return &fileRepo{db: db}
}

func scanFile(row scanner) (*models.File, error) {
	var f models.File
	var filename, mimetype, folderID sql.NullString
	var size sql.NullInt64
	err := row.Scan(&f.ID, &f.Title, &f.Description, &filename, &f.IsFolder, &mimetype,
		&f.Path, &size, &folderID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Filename = filename.String
	f.Mimetype = mimetype.String
	f.Size = size.Int64
	f.FolderID = refPtr(folderID)
	return &f, nil
}

func (r *fileRepo) Create(ctx context.Context, f *models.File) error {
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now

	var size sql.NullInt64
	if !f.IsFolder {
		size = sql.NullInt64{Int64: f.Size, Valid: true}
	}

	q := `
		INSERT INTO files (id, title, description, filename, is_folder, mimetype, path, size, folder_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, q,
		f.ID, f.Title, f.Description, nullString(f.Filename), f.IsFolder, nullString(f.Mimetype),
		f.Path, size, nullRef(f.FolderID), f.CreatedAt, f.UpdatedAt,
	)
	return translate(err)
}

// Update changes the descriptive fields of a file or folder
func (r *fileRepo) Update(ctx context.Context, f *models.File) error {
	f.UpdatedAt = time.Now().UTC()
	q := "UPDATE files SET title = $2, description = $3, updated_at = $4 WHERE id = $1"
	return expectOne(r.db.ExecContext(ctx, q, f.ID, f.Title, f.Description, f.UpdatedAt))
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, "DELETE FROM files WHERE id = $1", id))
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	f, err := scanFile(r.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = $1", id))
	return f, translate(err)
}

func (r *fileRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.File, error) {
	if len(ids) == 0 {
		return []*models.File{}, nil
	}
	return r.Find(ctx, query.Plan{Filter: query.Where(query.In("id", ids))})
}

func (r *fileRepo) GetFolderByPath(ctx context.Context, path string) (*models.File, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE is_folder AND path = $1", path)
	f, err := scanFile(row)
	return f, translate(err)
}

func (r *fileRepo) HasChildren(ctx context.Context, folderID string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM files WHERE folder_id = $1", folderID)
}

func (r *fileRepo) Find(ctx context.Context, plan query.Plan) ([]*models.File, error) {
	return find(ctx, r.db, "files", fileColumns, FileSchema, plan, scanFile)
}

func (r *fileRepo) Count(ctx context.Context, filter query.Filter) (int, error) {
	return count(ctx, r.db, "files", FileSchema, filter)
}
