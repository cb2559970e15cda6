// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/internal/service"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
	"github.com/iudx/catalogue-service/pkg/log"
	"github.com/iudx/catalogue-service/pkg/metrics"
)

// maxItemBytes bounds the body of item create and update requests
const maxItemBytes = 1 << 20

// catalogueSvc serves the catalogue HTTP API
type catalogueSvc struct {
	repository *service.ItemRepository
	resolver   *service.RelationshipResolver
	search     *service.CatalogueSearch
	auth       port.Authenticator
	publisher  port.EventPublisher
}

// authenticate validates the token header and stores the principal in the context
func (s *catalogueSvc) authenticate(r *http.Request) (context.Context, error) {
	ctx := r.Context()

	token := r.Header.Get(constants.TokenHeader)
	if strings.TrimSpace(token) == "" {
		return ctx, errors.NewUnauthorized("token header is required")
	}

	principal, err := s.auth.ParsePrincipal(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "authentication failed", "error", err)
		return ctx, err
	}

	ctx = log.AppendCtx(ctx, slog.String(string(constants.PrincipalContextID), principal))
	return context.WithValue(ctx, constants.PrincipalContextID, principal), nil
}

// createItem inserts a catalogue item
func (s *catalogueSvc) createItem(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, model.MethodInsert, http.StatusCreated, func(ctx context.Context, item model.CatalogItem) (*model.LifecycleResult, error) {
		return s.repository.Create(ctx, item)
	})
}

// updateItem replaces a catalogue item
func (s *catalogueSvc) updateItem(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, model.MethodUpdate, http.StatusOK, func(ctx context.Context, item model.CatalogItem) (*model.LifecycleResult, error) {
		return s.repository.Update(ctx, item)
	})
}

func (s *catalogueSvc) mutate(w http.ResponseWriter, r *http.Request, method model.Method, okStatus int,
	apply func(context.Context, model.CatalogItem) (*model.LifecycleResult, error)) {

	ctx, err := s.authenticate(r)
	if err != nil {
		s.fail(ctx, w, method, nil, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxItemBytes))
	if err != nil {
		s.fail(ctx, w, method, nil, errors.NewValidationReason(query.ReasonInvalidItem, "unreadable request body", err))
		return
	}

	item, err := model.NewCatalogItem(body)
	if err != nil {
		s.fail(ctx, w, method, nil, errors.NewValidationReason(query.ReasonInvalidItem, "invalid item", err))
		return
	}
	ctx = log.AppendCtx(ctx, slog.String("item_id", item.ID))

	result, err := apply(ctx, item)
	if err != nil {
		s.fail(ctx, w, method, result, err)
		return
	}
	s.succeed(ctx, w, method, okStatus, result)
}

// deleteItem removes the item named by the id query parameter
func (s *catalogueSvc) deleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, err := s.authenticate(r)
	if err != nil {
		s.fail(ctx, w, model.MethodDelete, nil, err)
		return
	}

	id := r.URL.Query().Get("id")
	ctx = log.AppendCtx(ctx, slog.String("item_id", id))

	result, err := s.repository.Delete(ctx, id)
	if err != nil {
		s.fail(ctx, w, model.MethodDelete, result, err)
		return
	}
	s.succeed(ctx, w, model.MethodDelete, http.StatusOK, result)
}

// succeed writes an applied mutation
func (s *catalogueSvc) succeed(ctx context.Context, w http.ResponseWriter, method model.Method, code int, result *model.LifecycleResult) {
	if !result.Succeeded() {
		s.fail(ctx, w, method, result, errors.NewUnexpected("item mutation was not applied"))
		return
	}
	metrics.ItemMutation(string(method), string(result.Status))
	writeJSON(ctx, w, code, envelope{Status: statusSuccess, Results: []*model.LifecycleResult{result}})
}

// fail writes a mutation failure, echoing the lifecycle result when one exists
func (s *catalogueSvc) fail(ctx context.Context, w http.ResponseWriter, method model.Method, result *model.LifecycleResult, err error) {
	metrics.ItemMutation(string(method), string(model.StatusFailed))
	code, body := wrapError(ctx, err)
	if result != nil {
		body.Results = []*model.LifecycleResult{result}
	}
	writeJSON(ctx, w, code, body)
}

// getItem returns the item named by the id query parameter
func (s *catalogueSvc) getItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := s.repository.Get(ctx, r.URL.Query().Get("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSearchResult(ctx, w, result)
}

// searchItems runs a catalogue search
func (s *catalogueSvc) searchItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := paramsToRequest(r.URL.Query(), model.OperationSearch)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.search.Search(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSearchResult(ctx, w, result)
}

// countItems counts the items matching a catalogue search
func (s *catalogueSvc) countItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := paramsToRequest(r.URL.Query(), model.OperationCount)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := s.search.Count(ctx, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, envelope{Status: statusSuccess, Count: &result.Count})
}

// relationship follows a hierarchy edge from an item id
func (s *catalogueSvc) relationship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	kind, err := model.ParseRelationship(params.Get("rel"))
	if err != nil {
		writeError(ctx, w, errors.NewValidationReason(query.ReasonInvalidRelationship, "invalid rel parameter", err))
		return
	}

	result, err := s.resolver.Resolve(ctx, params.Get("id"), kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSearchResult(ctx, w, result)
}

// readyz checks the backend and the event publisher
func (s *catalogueSvc) readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.search.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "backend not ready", "error", err)
		http.Error(w, "NotReady", http.StatusServiceUnavailable)
		return
	}
	if err := s.publisher.IsReady(ctx); err != nil {
		slog.ErrorContext(ctx, "event publisher not ready", "error", err)
		http.Error(w, "NotReady", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("OK\n"))
}

// livez always reports the process as alive
func (s *catalogueSvc) livez(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("OK\n"))
}

func writeSearchResult(ctx context.Context, w http.ResponseWriter, result *model.SearchResult) {
	total := result.TotalHits
	results := result.Results
	if results == nil {
		results = []json.RawMessage{}
	}
	writeJSON(ctx, w, http.StatusOK, envelope{Status: statusSuccess, TotalHits: &total, Results: results})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	code, body := wrapError(ctx, err)
	writeJSON(ctx, w, code, body)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// NewCatalogueHandler wires the catalogue services behind the HTTP router.
func NewCatalogueHandler(backend port.Backend, publisher port.EventPublisher, auth port.Authenticator,
	validator port.ItemValidator, compiler *query.Compiler) http.Handler {

	opts := []service.ItemRepositoryOption{service.WithPublisher(publisher)}
	if validator != nil {
		opts = append(opts, service.WithValidator(validator))
	}

	svc := &catalogueSvc{
		repository: service.NewItemRepository(backend, opts...),
		resolver:   service.NewRelationshipResolver(backend),
		search:     service.NewCatalogueSearch(compiler, backend),
		auth:       auth,
		publisher:  publisher,
	}
	return newRouter(svc)
}
