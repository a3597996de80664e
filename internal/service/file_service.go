package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fileService struct {
	repos     *repository.Repositories
	integrity IntegrityMaintainer
	storage   Storage
	log       zerolog.Logger
}

func newFileService(repos *repository.Repositories, integrity IntegrityMaintainer, storage Storage, log zerolog.Logger) *fileService {
	return &fileService{
		repos:     repos,
		integrity: integrity,
		storage:   storage,
		log:       log.With().Str("service", "file").Logger(),
	}
}

func (s *fileService) List(ctx context.Context, q query.Query, folderID *string) (*query.ListResult[*models.File], error) {
	scope := query.IsNull("folderId")
	if folderID != nil {
		scope = query.Eq("folderId", *folderID)
	}
	result, err := query.Run[*models.File](ctx, s.repos.File, q, scope)
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "invalid file query")
	}
	return result, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*models.File, error) {
	file, err := s.repos.File.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "file")
	}
	return file, nil
}

// folder loads id and checks that it is a folder
func (s *fileService) folder(ctx context.Context, id string) (*models.File, error) {
	f, err := s.repos.File.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "folder")
	}
	if !f.IsFolder {
		return nil, fault.New(fault.BadRequest, "%s is not a folder", id)
	}
	return f, nil
}

func (s *fileService) CreateFolder(ctx context.Context, in *models.FolderInput) (*models.File, error) {
	if err := invalid(validation.ValidateFolder(in)); err != nil {
		return nil, err
	}
	folderPath := path.Clean(in.Path)

	existing, err := s.repos.File.GetFolderByPath(ctx, folderPath)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, lookupFault(err, "folder")
	}

	if in.FolderID != nil {
		if _, err := s.folder(ctx, *in.FolderID); err != nil {
			return nil, err
		}
	}

	folder := &models.File{
		ID:       uuid.NewString(),
		Title:    in.Title,
		IsFolder: true,
		Path:     folderPath,
		FolderID: in.FolderID,
	}
	if err := s.repos.File.Create(ctx, folder); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// created concurrently
			if existing, lerr := s.repos.File.GetFolderByPath(ctx, folderPath); lerr == nil {
				return existing, nil
			}
		}
		return nil, writeFault(err, fault.Internal, "failed to create folder", "folder already exists")
	}

	s.log.Info().Str("file_id", folder.ID).Str("path", folderPath).Msg("Folder created")
	return folder, nil
}

func (s *fileService) Upload(ctx context.Context, up models.Upload, content io.Reader) (*models.File, error) {
	if strings.TrimSpace(up.Filename) == "" {
		return nil, fault.New(fault.BadRequest, "filename is required")
	}

	dir := "/"
	if up.FolderID != nil {
		parent, err := s.folder(ctx, *up.FolderID)
		if err != nil {
			return nil, err
		}
		dir = parent.Path
	}

	name := uuid.NewString() + strings.ToLower(path.Ext(up.Filename))
	size, err := s.storage.Save(name, content)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, fault.Wrap(fault.BadRequest, err, ErrTooLarge.Error())
		}
		return nil, fault.Wrap(fault.Internal, err, "failed to save file")
	}

	title := up.Title
	if title == "" {
		title = up.Filename
	}
	file := &models.File{
		ID:       uuid.NewString(),
		Title:    title,
		Filename: name,
		Mimetype: up.Mimetype,
		Path:     path.Join(dir, name),
		Size:     size,
		FolderID: up.FolderID,
	}
	if err := s.repos.File.Create(ctx, file); err != nil {
		if rerr := s.storage.Remove(name); rerr != nil {
			s.log.Warn().Err(rerr).Str("filename", name).Msg("Failed to remove orphaned upload")
		}
		return nil, writeFault(err, fault.Internal, "failed to create file", "file already exists")
	}

	s.log.Info().
		Str("file_id", file.ID).
		Str("filename", name).
		Str("original", up.Filename).
		Int64("size_bytes", size).
		Msg("File uploaded")
	return file, nil
}

func (s *fileService) Update(ctx context.Context, id string, in *models.FileUpdateInput) (*models.File, error) {
	if err := invalid(validation.ValidateFileUpdate(in)); err != nil {
		return nil, err
	}
	file, err := s.repos.File.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "file")
	}
	file.Title = in.Title
	file.Description = in.Description
	if err := s.repos.File.Update(ctx, file); err != nil {
		return nil, writeFault(err, fault.BadRequest, "failed to update file", "")
	}
	return file, nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	file, err := s.repos.File.GetByID(ctx, id)
	if err != nil {
		return lookupFault(err, "file")
	}

	inUse, err := s.integrity.IsFileInUse(ctx, file)
	if err != nil {
		return err
	}
	if inUse {
		return fault.New(fault.BadRequest, "file is in use")
	}

	if err := s.repos.File.Delete(ctx, id); err != nil {
		return writeFault(err, fault.Internal, "failed to delete file", "")
	}
	if !file.IsFolder && file.Filename != "" {
		if err := s.storage.Remove(file.Filename); err != nil {
			s.log.Warn().Err(err).Str("filename", file.Filename).Msg("Failed to remove stored file")
		}
	}

	s.log.Info().Str("file_id", id).Bool("folder", file.IsFolder).Msg("File deleted")
	return nil
}
