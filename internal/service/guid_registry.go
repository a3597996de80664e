package service

import (
	"context"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
)

// GuidRegistry guards the guid namespace shared by articles and pages
type GuidRegistry interface {
	// Exists reports whether an article or a page already uses guid
	Exists(ctx context.Context, guid string) (bool, error)
}

type guidRegistry struct {
	repos *repository.Repositories
}

func newGuidRegistry(repos *repository.Repositories) *guidRegistry {
	return &guidRegistry{repos: repos}
}

func (g *guidRegistry) Exists(ctx context.Context, guid string) (bool, error) {
	taken, err := g.repos.Article.GUIDExists(ctx, guid)
	if err != nil || taken {
		return taken, err
	}
	return g.repos.Page.GUIDExists(ctx, guid)
}

// check is the pre-insert test: it fails with Conflict when guid is taken
func (g *guidRegistry) check(ctx context.Context, guid string) error {
	taken, err := g.Exists(ctx, guid)
	if err != nil {
		return fault.Wrap(fault.BadRequest, err, "failed to check guid")
	}
	if taken {
		return guidConflict(guid)
	}
	return nil
}

// claim records ownership of guid in tx. The unique key on the claim is the
// authoritative uniqueness signal when two writers pass check concurrently.
func claim(ctx context.Context, tx *repository.Repositories, kind models.SlugKind, guid, ownerID string) error {
	err := tx.Slug.Claim(ctx, models.SlugClaim{GUID: guid, Kind: kind, OwnerID: ownerID})
	if err != nil {
		return writeFault(err, fault.Internal, "failed to claim guid", guidConflict(guid).Message)
	}
	return nil
}

// move transfers a claim when a document changes its guid
func move(ctx context.Context, tx *repository.Repositories, kind models.SlugKind, from, to, ownerID string) error {
	if from == to {
		return nil
	}
	if err := claim(ctx, tx, kind, to, ownerID); err != nil {
		return err
	}
	if err := tx.Slug.Release(ctx, from, ownerID); err != nil {
		return fault.Wrap(fault.Internal, err, "failed to release guid")
	}
	return nil
}

func guidConflict(guid string) *fault.Error {
	return fault.New(fault.Conflict, "guid %q already exists", guid)
}
