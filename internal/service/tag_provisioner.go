package service

import (
	"context"
	"strings"

	"github.com/content-graph-api/internal/fault"
	"github.com/content-graph-api/internal/models"
	"github.com/content-graph-api/internal/repository"
	"github.com/content-graph-api/internal/slug"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// Provisioned is one resolved tag label
type Provisioned struct {
	Tag *models.Tag
	// Created is true when this call inserted the tag
	Created bool
}

// TagProvisioner resolves tag labels to tags, creating the missing ones
type TagProvisioner interface {
	// Provision resolves labels in order. The result has one entry per label;
	// labels with the same slug resolve to the same tag.
	Provision(ctx context.Context, labels []string) ([]Provisioned, error)
}

type tagProvisioner struct {
	tags   repository.TagRepository
	locale language.Tag
	log    zerolog.Logger
}

func newTagProvisioner(tags repository.TagRepository, locale language.Tag, log zerolog.Logger) *tagProvisioner {
	return &tagProvisioner{
		tags:   tags,
		locale: locale,
		log:    log.With().Str("component", "tag_provisioner").Logger(),
	}
}

func (p *tagProvisioner) Provision(ctx context.Context, labels []string) ([]Provisioned, error) {
	out := make([]Provisioned, 0, len(labels))
	for _, label := range labels {
		title := strings.TrimSpace(label)
		guid := slug.Make(title, p.locale)
		if guid == "" {
			return nil, fault.New(fault.BadRequest, "tag %q has no usable characters", label)
		}

		tag, created, err := p.tags.GetOrCreate(ctx, &models.Tag{
			ID:    uuid.NewString(),
			Title: title,
			GUID:  guid,
		})
		if err != nil {
			return nil, fault.Wrap(fault.Internal, err, "failed to provision tags")
		}
		if created {
			p.log.Info().Str("tag_id", tag.ID).Str("guid", tag.GUID).Msg("Tag created")
		}
		out = append(out, Provisioned{Tag: tag, Created: created})
	}
	return out, nil
}

// TagIDs returns the distinct tag identifiers of ps in first-seen order
func TagIDs(ps []Provisioned) []string {
	ids := make([]string, 0, len(ps))
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if !seen[p.Tag.ID] {
			seen[p.Tag.ID] = true
			ids = append(ids, p.Tag.ID)
		}
	}
	return ids
}
