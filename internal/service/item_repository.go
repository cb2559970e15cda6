// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/internal/middleware"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/google/uuid"
)

const (
	descriptionExists   = "item already exists"
	descriptionNotFound = "item not found"
	descriptionBackend  = "backend error"
	descriptionInvalid  = "invalid item"
)

// ItemRepository applies create, update and delete as an existence check
// followed by a single conditional write. It keeps no state between calls.
type ItemRepository struct {
	backend   port.Backend
	validator port.ItemValidator
	publisher port.EventPublisher
}

// ItemRepositoryOption configures optional collaborators
type ItemRepositoryOption func(*ItemRepository)

// WithValidator checks documents against their item type schema before any backend call
func WithValidator(v port.ItemValidator) ItemRepositoryOption {
	return func(r *ItemRepository) {
		r.validator = v
	}
}

// WithPublisher announces applied mutations
func WithPublisher(p port.EventPublisher) ItemRepositoryOption {
	return func(r *ItemRepository) {
		r.publisher = p
	}
}

// NewItemRepository creates an ItemRepository over backend.
func NewItemRepository(backend port.Backend, opts ...ItemRepositoryOption) *ItemRepository {
	r := &ItemRepository{backend: backend}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// existence is the outcome of the check step
type existence struct {
	exists bool
	handle model.DocumentHandle
}

// Create inserts item if no document with its id exists.
func (r *ItemRepository) Create(ctx context.Context, item model.CatalogItem) (*model.LifecycleResult, error) {
	result := &model.LifecycleResult{ID: item.ID, Method: model.MethodInsert}

	if err := r.validate(ctx, item); err != nil {
		return failed(result, descriptionInvalid), err
	}

	state, err := r.checkExistence(ctx, item.ID)
	if err != nil {
		return failed(result, descriptionBackend), err
	}
	if state.exists {
		slog.InfoContext(ctx, "create rejected, item exists", "id", item.ID)
		return failed(result, descriptionExists), errors.NewConflict(descriptionExists)
	}

	if err := r.insert(ctx, item); err != nil {
		return failed(result, describe(err)), err
	}

	r.publish(ctx, constants.ActionCreated, item)
	return succeeded(result), nil
}

// Update replaces the stored document, inserting it when absent.
func (r *ItemRepository) Update(ctx context.Context, item model.CatalogItem) (*model.LifecycleResult, error) {
	result := &model.LifecycleResult{ID: item.ID, Method: model.MethodUpdate}

	if err := r.validate(ctx, item); err != nil {
		return failed(result, descriptionInvalid), err
	}

	state, err := r.checkExistence(ctx, item.ID)
	if err != nil {
		return failed(result, descriptionBackend), err
	}

	if state.exists {
		err = r.replace(ctx, state.handle, item)
	} else {
		slog.DebugContext(ctx, "update of absent item, inserting", "id", item.ID)
		err = r.insert(ctx, item)
	}
	if err != nil {
		return failed(result, describe(err)), err
	}

	r.publish(ctx, constants.ActionUpdated, item)
	return succeeded(result), nil
}

// Delete removes the document with the given id.
func (r *ItemRepository) Delete(ctx context.Context, id string) (*model.LifecycleResult, error) {
	result := &model.LifecycleResult{ID: id, Method: model.MethodDelete}

	if err := validateID(id); err != nil {
		return failed(result, descriptionInvalid), err
	}

	state, err := r.checkExistence(ctx, id)
	if err != nil {
		return failed(result, descriptionBackend), err
	}
	if !state.exists {
		slog.InfoContext(ctx, "delete rejected, item not found", "id", id)
		return failed(result, descriptionNotFound), errors.NewNotFound(descriptionNotFound)
	}

	if err := r.remove(ctx, state.handle, id); err != nil {
		return failed(result, describe(err)), err
	}

	r.publish(ctx, constants.ActionDeleted, model.CatalogItem{ID: id})
	return succeeded(result), nil
}

// Get returns the stored document with the given id.
func (r *ItemRepository) Get(ctx context.Context, id string) (*model.SearchResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	hits, err := r.backend.Search(ctx, query.ItemQuery(id))
	if err != nil {
		return nil, err
	}
	if len(hits.Hits) == 0 {
		return nil, errors.NewNotFound(descriptionNotFound)
	}
	return &model.SearchResult{TotalHits: 1, Results: sources(hits)[:1]}, nil
}

func (r *ItemRepository) checkExistence(ctx context.Context, id string) (existence, error) {
	hits, err := r.backend.Search(ctx, query.ExistenceQuery(id))
	if err != nil {
		slog.ErrorContext(ctx, "existence check failed", "id", id, "error", err)
		return existence{}, err
	}
	if len(hits.Hits) == 0 {
		return existence{}, nil
	}
	return existence{exists: true, handle: hits.Hits[0].Handle}, nil
}

func (r *ItemRepository) insert(ctx context.Context, item model.CatalogItem) error {
	if _, err := r.backend.Create(ctx, item.ID, item.Raw); err != nil {
		slog.ErrorContext(ctx, "insert failed", "id", item.ID, "error", err)
		return err
	}
	slog.InfoContext(ctx, "item inserted", "id", item.ID, "item_type", item.ItemType)
	return nil
}

func (r *ItemRepository) replace(ctx context.Context, handle model.DocumentHandle, item model.CatalogItem) error {
	if err := r.backend.Replace(ctx, handle, item.Raw); err != nil {
		slog.ErrorContext(ctx, "replace failed", "id", item.ID, "error", err)
		return err
	}
	slog.InfoContext(ctx, "item replaced", "id", item.ID, "item_type", item.ItemType)
	return nil
}

func (r *ItemRepository) remove(ctx context.Context, handle model.DocumentHandle, id string) error {
	if err := r.backend.Delete(ctx, handle); err != nil {
		slog.ErrorContext(ctx, "delete failed", "id", id, "error", err)
		return err
	}
	slog.InfoContext(ctx, "item deleted", "id", id)
	return nil
}

func (r *ItemRepository) validate(ctx context.Context, item model.CatalogItem) error {
	if err := validateID(item.ID); err != nil {
		return err
	}
	if !item.ItemType.Valid() {
		return errors.NewValidationReason(query.ReasonInvalidItem, "unknown itemType "+string(item.ItemType))
	}
	if r.validator == nil {
		return nil
	}
	return r.validator.Validate(ctx, string(item.ItemType), item.Raw)
}

// publish never affects the outcome of the mutation.
func (r *ItemRepository) publish(ctx context.Context, action string, item model.CatalogItem) {
	if r.publisher == nil {
		return
	}
	principal, _ := ctx.Value(constants.PrincipalContextID).(string)
	event := model.ItemEvent{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		ItemType:   item.ItemType,
		Action:     action,
		Principal:  principal,
		RequestID:  middleware.RequestIDFromContext(ctx),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Data:       item.Raw,
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish item event",
			"action", action,
			"id", item.ID,
			"error", err,
		)
	}
}

func validateID(id string) error {
	if id == "" {
		return errors.NewValidationReason(query.ReasonInvalidID, "id is required")
	}
	if len(id) > constants.MaxIDLength {
		return errors.NewValidationReason(query.ReasonInvalidID, "id is too long")
	}
	// the stored document keeps the id as sent, so padding is never trimmed
	if strings.TrimSpace(id) != id {
		return errors.NewValidationReason(query.ReasonInvalidID, "id must not have surrounding whitespace")
	}
	return nil
}

// describe turns a write failure into the client-facing description.
func describe(err error) string {
	var conflict errors.Conflict
	if stderrors.As(err, &conflict) {
		return descriptionExists
	}
	var notFound errors.NotFound
	if stderrors.As(err, &notFound) {
		return descriptionNotFound
	}
	return descriptionBackend
}

func failed(r *model.LifecycleResult, description string) *model.LifecycleResult {
	r.Status = model.StatusFailed
	r.Description = description
	return r
}

func succeeded(r *model.LifecycleResult) *model.LifecycleResult {
	r.Status = model.StatusSuccess
	return r
}

func sources(hits *model.Hits) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(hits.Hits))
	for _, h := range hits.Hits {
		out = append(out, h.Source)
	}
	return out
}
