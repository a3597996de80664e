package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/slug"
	"github.com/content-graph-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

type tagService struct {
	repos     *repository.Repositories
	integrity *integrityMaintainer
	locale    language.Tag
	log       zerolog.Logger
}

func newTagService(repos *repository.Repositories, integrity *integrityMaintainer, locale language.Tag, log zerolog.Logger) *tagService {
	return &tagService{
		repos:     repos,
		integrity: integrity,
		locale:    locale,
		log:       log.With().Str("service", "tag").Logger(),
	}
}

func (s *tagService) List(ctx context.Context, q query.Query) (*query.ListResult[*models.Tag], error) {
	result, err := query.Run[*models.Tag](ctx, s.repos.Tag, q)
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "invalid tag query")
	}
	return result, nil
}

func (s *tagService) Get(ctx context.Context, id string) (*models.Tag, error) {
	tag, err := s.repos.Tag.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "tag")
	}
	return tag, nil
}

func (s *tagService) guid(in *models.TagInput) (string, error) {
	if err := invalid(validation.ValidateTag(in)); err != nil {
		return "", err
	}
	guid := slug.Make(in.Title, s.locale)
	if guid == "" {
		return "", fault.New(fault.BadRequest, "tag %q has no usable characters", in.Title)
	}
	return guid, nil
}

// Create inserts a tag. Unlike provisioning it rejects a title whose slug is taken.
func (s *tagService) Create(ctx context.Context, in *models.TagInput) (*models.Tag, error) {
	guid, err := s.guid(in)
	if err != nil {
		return nil, err
	}
	tag := &models.Tag{ID: uuid.NewString(), Title: in.Title, GUID: guid}
	if err := s.repos.Tag.Create(ctx, tag); err != nil {
		return nil, writeFault(err, fault.Internal, "failed to create tag", "tag \""+guid+"\" already exists")
	}
	s.log.Info().Str("tag_id", tag.ID).Str("guid", guid).Msg("Tag created")
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id string, in *models.TagInput) (*models.Tag, error) {
	guid, err := s.guid(in)
	if err != nil {
		return nil, err
	}
	tag, err := s.repos.Tag.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "tag")
	}
	tag.Title = in.Title
	tag.GUID = guid
	if err := s.repos.Tag.Update(ctx, tag); err != nil {
		return nil, writeFault(err, fault.BadRequest, "failed to update tag", "tag \""+guid+"\" already exists")
	}
	return tag, nil
}

// Delete removes the tag and its article references in one transaction
func (s *tagService) Delete(ctx context.Context, id string) error {
	return s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Tag.Delete(ctx, id); err != nil {
			return writeFault(err, fault.BadRequest, "failed to delete tag", "")
		}
		_, err := s.integrity.bind(tx).RemoveTagReferences(ctx, id)
		if err == nil {
			s.log.Info().Str("tag_id", id).Msg("Tag deleted")
		}
		return err
	})
}
