// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// CatalogueSearch compiles search and count requests and dispatches them to the backend
type CatalogueSearch struct {
	compiler *query.Compiler
	backend  port.Backend
}

// NewCatalogueSearch creates a CatalogueSearch instance
func NewCatalogueSearch(compiler *query.Compiler, backend port.Backend) *CatalogueSearch {
	return &CatalogueSearch{
		compiler: compiler,
		backend:  backend,
	}
}

// Search returns the matching documents. A query matching nothing is a
// NotFound error; a page past the last match is returned empty.
func (s *CatalogueSearch) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	req.Operation = model.OperationSearch

	compiled, err := s.compiler.Compile(ctx, req)
	if err != nil {
		slog.With("error", err).WarnContext(ctx, "search request rejected")
		return nil, err
	}

	hits, err := s.backend.Search(ctx, compiled)
	if err != nil {
		return nil, fmt.Errorf("search operation failed: %w", err)
	}

	if hits.Total == 0 {
		return nil, errors.NewNotFound("empty response")
	}

	slog.DebugContext(ctx, "search completed",
		"total_hits", hits.Total,
		"returned", len(hits.Hits),
	)

	return &model.SearchResult{TotalHits: hits.Total, Results: sources(hits)}, nil
}

// Count returns the number of matching documents.
func (s *CatalogueSearch) Count(ctx context.Context, req model.SearchRequest) (*model.CountResult, error) {
	req.Operation = model.OperationCount

	compiled, err := s.compiler.Compile(ctx, req)
	if err != nil {
		slog.With("error", err).WarnContext(ctx, "count request rejected")
		return nil, err
	}

	count, err := s.backend.Count(ctx, compiled)
	if err != nil {
		return nil, fmt.Errorf("count operation failed: %w", err)
	}

	return &model.CountResult{Count: count}, nil
}

// IsReady checks the backend
func (s *CatalogueSearch) IsReady(ctx context.Context) error {
	return s.backend.IsReady(ctx)
}
