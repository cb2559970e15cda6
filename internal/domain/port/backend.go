// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/iudx/catalogue-service/internal/domain/model"
)

// Backend defines the document-search operations the catalogue needs.
// Implementations must not retry; every failure is returned to the caller.
type Backend interface {
	// Search runs a compiled query and returns the matching hits
	Search(ctx context.Context, query *model.CompiledQuery) (*model.Hits, error)

	// Count returns the number of documents matching the compiled query
	Count(ctx context.Context, query *model.CompiledQuery) (int, error)

	// Create stores a new document for the given catalogue id. It returns a
	// Conflict error if the backend already holds a document at that handle.
	Create(ctx context.Context, id string, document []byte) (model.DocumentHandle, error)

	// Replace overwrites the document at handle
	Replace(ctx context.Context, handle model.DocumentHandle, document []byte) error

	// Delete removes the document at handle
	Delete(ctx context.Context, handle model.DocumentHandle) error

	// IsReady checks if the backend is reachable and healthy
	IsReady(ctx context.Context) error
}
