package service

import (
	"context"
	"errors"

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

type categoryService struct {
	repos     *repository.Repositories
	integrity *integrityMaintainer
	locale    language.Tag
	log       zerolog.Logger
}

func newCategoryService(repos *repository.Repositories, integrity *integrityMaintainer, locale language.Tag, log zerolog.Logger) *categoryService {
	return &categoryService{
		repos:     repos,
		integrity: integrity,
		locale:    locale,
		log:       log.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) List(ctx context.Context, q query.Query) (*query.ListResult[*models.Category], error) {
	result, err := query.Run[*models.Category](ctx, s.repos.Category, q)
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "invalid category query")
	}
	return result, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "category")
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, in *models.CategoryInput) (*models.Category, error) {
	category := &models.Category{ID: uuid.NewString()}
	if err := s.prepare(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		return nil, writeFault(err, fault.Internal, "failed to create category", "category already exists")
	}
	s.log.Info().Str("category_id", category.ID).Str("guid", category.GUID).Msg("Category created")
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in *models.CategoryInput) (*models.Category, error) {
	category, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "category")
	}
	if err := s.prepare(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.repos.Category.Update(ctx, category); err != nil {
		return nil, writeFault(err, fault.BadRequest, "failed to update category", "category already exists")
	}
	return category, nil
}

// prepare validates in and copies it onto c. The guid defaults to the slug of the title.
func (s *categoryService) prepare(ctx context.Context, c *models.Category, in *models.CategoryInput) error {
	if err := invalid(validation.ValidateCategory(in)); err != nil {
		return err
	}
	guid := in.GUID
	if guid == "" {
		guid = slug.Make(in.Title, s.locale)
	}
	if guid == "" {
		return fault.New(fault.BadRequest, "title %q has no usable characters", in.Title)
	}

	if in.Parent != nil {
		if *in.Parent == c.ID {
			return fault.New(fault.BadRequest, "category cannot be its own parent")
		}
		if _, err := s.repos.Category.GetByID(ctx, *in.Parent); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fault.Wrap(fault.BadRequest, err, "parent category not found")
			}
			return lookupFault(err, "parent category")
		}
	}

	c.Title = in.Title
	c.Description = in.Description
	c.GUID = guid
	c.Parent = in.Parent
	c.Order = in.Order
	return nil
}

// Delete removes the category, its article references and the parent link of
// its children in one transaction.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	return s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Category.Delete(ctx, id); err != nil {
			return writeFault(err, fault.BadRequest, "failed to delete category", "")
		}
		if _, err := s.integrity.bind(tx).RemoveCategoryReferences(ctx, id); err != nil {
			return err
		}
		children, err := tx.Category.ClearParent(ctx, id)
		if err != nil {
			return fault.Wrap(fault.Internal, err, "failed to detach child categories")
		}
		s.log.Info().Str("category_id", id).Int64("children_detached", children).Msg("Category deleted")
		return nil
	})
}
