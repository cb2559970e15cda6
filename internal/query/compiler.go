// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package query translates catalogue search requests into backend queries.
package query

import (
	"context"
	"log/slog"
	"strings"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// Reason codes returned in Validation errors.
const (
	ReasonInvalidGeoParameter    = "invalid-geo-parameter"
	ReasonInvalidPolygon         = "invalid-coordinate-polygon"
	ReasonInvalidParameter       = "invalid-parameter"
	ReasonInvalidResponseFilter  = "invalid-response-filter"
	ReasonCountUnsupported       = "count-unsupported-for-response-filter"
	ReasonInvalidSearch          = "invalid-search"
	ReasonInvalidSearchType      = "invalid-search-type"
	ReasonInvalidItem            = "invalid-item"
	ReasonInvalidID              = "invalid-id"
	ReasonInvalidRelationship    = "invalid-relationship"
	ReasonInvalidPaginationValue = "invalid-pagination"
)

// Compiler is safe for concurrent use; it holds configuration only.
type Compiler struct {
	maxDistance int
	defaultSize int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMaxDistance sets the ceiling for Point maxDistance, in meters.
func WithMaxDistance(limit int) Option {
	return func(c *Compiler) {
		if limit > 0 {
			c.maxDistance = limit
		}
	}
}

// WithDefaultSize sets the size applied to search requests.
func WithDefaultSize(size int) Option {
	return func(c *Compiler) {
		if size > 0 {
			c.defaultSize = size
		}
	}
}

// NewCompiler creates a Compiler with the catalogue defaults.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		maxDistance: constants.MaxDistanceLimit,
		defaultSize: constants.DefaultSearchSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile builds the backend query for req. Any returned error is an
// errors.Validation carrying one of the Reason codes.
func (c *Compiler) Compile(ctx context.Context, req model.SearchRequest) (*model.CompiledQuery, error) {
	q := model.NewCompiledQuery()

	searchType := req.SearchType
	if searchType == 0 {
		searchType = req.DeriveSearchType()
	}

	if req.Operation == model.OperationSearch {
		size := c.defaultSize
		q.Size = &size
	}

	if searchType.Has(model.SearchTypeGeo) {
		clause, err := c.geoClause(req)
		if err != nil {
			return nil, err
		}
		q.Query.Bool.Filter = append(q.Query.Bool.Filter, clause)
		q.Facets |= model.SearchTypeGeo
	}

	if searchType.Has(model.SearchTypeText) && strings.TrimSpace(req.Q) != "" {
		q.Query.Bool.Must = append(q.Query.Bool.Must, model.Clause{
			QueryString: &model.QueryStringQuery{Query: req.Q},
		})
		q.Facets |= model.SearchTypeText
	}

	if searchType.Has(model.SearchTypeAttribute) && len(req.Property) > 0 && len(req.Value) > 0 {
		clauses, err := attributeClauses(req.Property, req.Value)
		if err != nil {
			return nil, err
		}
		q.Query.Bool.Must = append(q.Query.Bool.Must, clauses...)
		q.Facets |= model.SearchTypeAttribute
	}

	if req.Limit != nil {
		if *req.Limit < 0 {
			return nil, errors.NewValidationReason(ReasonInvalidPaginationValue, "limit must not be negative")
		}
		size := *req.Limit
		q.Size = &size
	}
	if req.Offset != nil {
		if *req.Offset < 0 {
			return nil, errors.NewValidationReason(ReasonInvalidPaginationValue, "offset must not be negative")
		}
		from := *req.Offset
		q.From = &from
	}

	if searchType.Has(model.SearchTypeResponseFilter) {
		if req.Operation != model.OperationSearch {
			return nil, errors.NewValidationReason(ReasonCountUnsupported, "response filter is not supported for count")
		}
		switch {
		case len(req.Attribute) > 0:
			q.Source = &model.SourceFilter{Fields: req.Attribute}
		case len(req.Filter) > 0:
			q.Source = &model.SourceFilter{Fields: req.Filter}
		default:
			return nil, errors.NewValidationReason(ReasonInvalidResponseFilter, "response filter requires attribute or filter")
		}
		q.Facets |= model.SearchTypeResponseFilter
	}

	if q.Facets == 0 {
		return nil, errors.NewValidationReason(ReasonInvalidSearch, "request has no search facet")
	}

	slog.DebugContext(ctx, "compiled search request",
		"operation", req.Operation,
		"facets", q.Facets.String(),
		"filter_clauses", len(q.Query.Bool.Filter),
		"must_clauses", len(q.Query.Bool.Must),
	)

	return q, nil
}
