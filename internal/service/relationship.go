// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// RelationshipResolver follows hierarchy edges encoded in item ids:
// provider = first two segments, resource group = all but the last,
// resource server shares the first and third segments with its resources.
type RelationshipResolver struct {
	backend port.Backend
}

// NewRelationshipResolver creates a resolver over backend.
func NewRelationshipResolver(backend port.Backend) *RelationshipResolver {
	return &RelationshipResolver{backend: backend}
}

// Resolve returns the items related to id by kind.
func (r *RelationshipResolver) Resolve(ctx context.Context, id string, kind model.RelationshipKind) (*model.SearchResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	q, err := relationshipQuery(id, kind)
	if err != nil {
		return nil, err
	}
	// the backend default page is ten hits
	size := constants.MaxResultWindow
	q.Size = &size

	slog.DebugContext(ctx, "resolving relationship", "id", id, "rel", kind)

	hits, err := r.backend.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(hits.Hits) == 0 {
		return nil, errors.NewNotFound("no related item for " + id)
	}
	return &model.SearchResult{TotalHits: hits.Total, Results: sources(hits)}, nil
}

func relationshipQuery(id string, kind model.RelationshipKind) (*model.CompiledQuery, error) {
	segments := model.Segments(id)

	switch kind {
	case model.RelationshipResource:
		return query.MustQuery(nil,
			query.KeywordTerm(constants.ResourceGroupField, id),
			query.ItemTypeClause(model.ItemTypeResource),
		), nil

	case model.RelationshipResourceGroup:
		if len(segments) < 2 {
			return nil, tooShort(id, kind)
		}
		group := id[:strings.LastIndex(id, "/")]
		return query.MustQuery(nil,
			query.KeywordTerm(constants.IDField, group),
			query.ItemTypeClause(model.ItemTypeResourceGroup),
		), nil

	case model.RelationshipProvider:
		if len(segments) < 3 {
			return nil, tooShort(id, kind)
		}
		provider := strings.Join(segments[:2], "/")
		return query.MustQuery(nil,
			query.KeywordTerm(constants.IDField, provider),
			query.ItemTypeClause(model.ItemTypeProvider),
		), nil

	case model.RelationshipResourceServer:
		if len(segments) < 3 {
			return nil, tooShort(id, kind)
		}
		return query.MustQuery(nil,
			model.MatchClause(constants.IDField, segments[0]),
			model.MatchClause(constants.IDField, segments[2]),
			query.ItemTypeClause(model.ItemTypeResourceServer),
		), nil

	case model.RelationshipType:
		return query.MustQuery([]string{constants.ItemTypeField},
			query.KeywordTerm(constants.IDField, id),
		), nil
	}

	return nil, errors.NewValidationReason(query.ReasonInvalidRelationship, "unknown relationship "+string(kind))
}

func tooShort(id string, kind model.RelationshipKind) error {
	return errors.NewValidationReason(query.ReasonInvalidID,
		"id "+id+" has too few segments for relationship "+string(kind))
}
