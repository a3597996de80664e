package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/query"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type pageService struct {
	repos    *repository.Repositories
	guids    *guidRegistry
	counters Counters
	log      zerolog.Logger
}

func newPageService(repos *repository.Repositories, guids *guidRegistry, counters Counters, log zerolog.Logger) *pageService {
	return &pageService{
		repos:    repos,
		guids:    guids,
		counters: counters,
		log:      log.With().Str("service", "page").Logger(),
	}
}

func pageView(p *models.Page) *models.PageView {
	return &models.PageView{Page: p, ViewCount: len(p.ViewIPs)}
}

func (s *pageService) List(ctx context.Context, q query.Query) (*query.ListResult[*models.PageView], error) {
	result, err := query.Run[*models.Page](ctx, s.repos.Page, q)
	if err != nil {
		return nil, fault.Wrap(fault.BadRequest, err, "invalid page query")
	}
	return query.Map(result, func(pages []*models.Page) ([]*models.PageView, error) {
		views := make([]*models.PageView, len(pages))
		for i, p := range pages {
			views[i] = pageView(p)
		}
		return views, nil
	})
}

func (s *pageService) Get(ctx context.Context, id string) (*models.PageView, error) {
	page, err := s.repos.Page.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "page")
	}
	return pageView(page), nil
}

func (s *pageService) GetByGUID(ctx context.Context, guid, viewerIP string) (*models.PageView, error) {
	if viewerIP != "" {
		if err := s.counters.RecordPageView(ctx, guid, viewerIP); err != nil {
			return nil, err
		}
	}
	page, err := s.repos.Page.GetByGUID(ctx, guid)
	if err != nil {
		return nil, lookupFault(err, "page")
	}
	return pageView(page), nil
}

func (s *pageService) Create(ctx context.Context, in *models.PageInput) (*models.PageView, error) {
	if err := invalid(validation.ValidatePage(in)); err != nil {
		return nil, err
	}
	if err := s.guids.check(ctx, in.GUID); err != nil {
		return nil, err
	}

	page := &models.Page{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		GUID:        in.GUID,
	}
	err := s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := claim(ctx, tx, models.SlugKindPage, page.GUID, page.ID); err != nil {
			return err
		}
		return tx.Page.Create(ctx, page)
	})
	if err != nil {
		return nil, writeFault(err, fault.Internal, "failed to create page", guidConflict(in.GUID).Message)
	}

	s.log.Info().Str("page_id", page.ID).Str("guid", page.GUID).Msg("Page created")
	return pageView(page), nil
}

func (s *pageService) Update(ctx context.Context, id string, in *models.PageInput) (*models.PageView, error) {
	if err := invalid(validation.ValidatePage(in)); err != nil {
		return nil, err
	}
	page, err := s.repos.Page.GetByID(ctx, id)
	if err != nil {
		return nil, lookupFault(err, "page")
	}
	previousGUID := page.GUID
	if in.GUID != previousGUID {
		if err := s.guids.check(ctx, in.GUID); err != nil {
			return nil, err
		}
	}

	page.Title = in.Title
	page.Description = in.Description
	page.Content = in.Content
	page.GUID = in.GUID

	err = s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := move(ctx, tx, models.SlugKindPage, previousGUID, page.GUID, page.ID); err != nil {
			return err
		}
		return tx.Page.Update(ctx, page)
	})
	if err != nil {
		return nil, writeFault(err, fault.BadRequest, "failed to update page", guidConflict(in.GUID).Message)
	}
	return pageView(page), nil
}

func (s *pageService) Delete(ctx context.Context, id string) error {
	page, err := s.repos.Page.GetByID(ctx, id)
	if err != nil {
		return lookupFault(err, "page")
	}
	err = s.repos.InTx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Page.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Slug.Release(ctx, page.GUID, page.ID)
	})
	if err != nil {
		return writeFault(err, fault.BadRequest, "failed to delete page", "")
	}
	s.log.Info().Str("page_id", id).Msg("Page deleted")
	return nil
}
