// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
	"github.com/iudx/catalogue-service/pkg/metrics"

	json "github.com/goccy/go-json"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

const (
	defaultTimeout = 3 * time.Second
	defaultRefresh = "wait_for"

	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
	outcomeOpen     = "circuit_open"
)

// Backend implements port.Backend against one OpenSearch index
type Backend struct {
	transport transport
	index     string
	timeout   time.Duration
	refresh   string
	window    int
	breaker   Breaker
}

// Option configures a Backend
type Option func(*Backend)

// WithBreaker installs the circuit breaker guarding every call.
func WithBreaker(b Breaker) Option {
	return func(be *Backend) {
		if b != nil {
			be.breaker = b
		}
	}
}

// DocumentHandle derives the stored document _id from a catalogue id. The
// mapping is deterministic so that two concurrent inserts of one id collide.
func DocumentHandle(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// Search implements port.Backend
func (b *Backend) Search(ctx context.Context, query *model.CompiledQuery) (*model.Hits, error) {
	body, err := json.Marshal(b.clamp(query))
	if err != nil {
		return nil, errors.NewUnexpected("failed to encode query", err)
	}

	var resp *SearchResponse
	err = b.call(ctx, "search", func(ctx context.Context) (err error) {
		resp, err = b.transport.Search(ctx, b.index, body)
		return err
	})

	result := &model.Hits{Hits: []model.Hit{}}
	if indexMissing(err) {
		slog.WarnContext(ctx, "opensearch index does not exist yet", "index", b.index)
		return result, nil
	}
	if err != nil {
		return nil, readError("search", err)
	}

	result.Total = resp.Total.Value
	for _, hit := range resp.Hits.Hits {
		result.Hits = append(result.Hits, model.Hit{
			Handle: model.DocumentHandle{
				ID:          hit.ID,
				SeqNo:       hit.SeqNo,
				PrimaryTerm: hit.PrimaryTerm,
			},
			Source: hit.Source,
		})
	}
	return result, nil
}

// Count implements port.Backend
func (b *Backend) Count(ctx context.Context, query *model.CompiledQuery) (int, error) {
	body, err := json.Marshal(query.CountBody())
	if err != nil {
		return 0, errors.NewUnexpected("failed to encode query", err)
	}

	var resp *CountResponse
	err = b.call(ctx, "count", func(ctx context.Context) (err error) {
		resp, err = b.transport.Count(ctx, b.index, body)
		return err
	})
	if indexMissing(err) {
		return 0, nil
	}
	if err != nil {
		return 0, readError("count", err)
	}
	return resp.Count, nil
}

// Create implements port.Backend. It uses the create API, which fails
// with a conflict when the handle is taken.
func (b *Backend) Create(ctx context.Context, id string, document []byte) (model.DocumentHandle, error) {
	handle := DocumentHandle(id)

	var resp *WriteResponse
	err := b.call(ctx, "create", func(ctx context.Context) (err error) {
		resp, err = b.transport.Create(ctx, b.index, handle, document, b.refresh)
		return err
	})
	if err != nil {
		return model.DocumentHandle{}, writeError("create", err)
	}
	return model.DocumentHandle{ID: handle, SeqNo: resp.SeqNo, PrimaryTerm: resp.PrimaryTerm}, nil
}

// Replace implements port.Backend. The write is conditional on the version
// carried by handle.
func (b *Backend) Replace(ctx context.Context, handle model.DocumentHandle, document []byte) error {
	err := b.call(ctx, "replace", func(ctx context.Context) error {
		_, err := b.transport.Index(ctx, b.index, handle, document, b.refresh)
		return err
	})
	return writeError("replace", err)
}

// Delete implements port.Backend
func (b *Backend) Delete(ctx context.Context, handle model.DocumentHandle) error {
	err := b.call(ctx, "delete", func(ctx context.Context) error {
		_, err := b.transport.Delete(ctx, b.index, handle, b.refresh)
		return err
	})
	return writeError("delete", err)
}

// IsReady checks the cluster health, accepting green and yellow
func (b *Backend) IsReady(ctx context.Context) error {
	var health *HealthResponse
	err := b.call(ctx, "health", func(ctx context.Context) (err error) {
		health, err = b.transport.Health(ctx)
		return err
	})
	if err != nil {
		return readError("health", err)
	}
	if health.Status != "green" && health.Status != "yellow" {
		return errors.NewServiceUnavailable(fmt.Sprintf("opensearch cluster status is %s", health.Status))
	}
	return nil
}

// call runs fn under the breaker and the per-call timeout. It never retries.
// Errors are either ServiceUnavailable or an *apiError carrying the status.
func (b *Backend) call(ctx context.Context, op string, fn func(context.Context) error) error {
	done, err := b.breaker.Allow()
	if err != nil {
		metrics.ObserveBackend(op, outcomeOpen, 0)
		return errors.NewServiceUnavailable("backend error", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	err = fn(callCtx)
	elapsed := time.Since(start)

	status := statusOf(err)
	outcome := outcomeSuccess
	switch {
	case err == nil:
	case status == 0 || status >= http.StatusInternalServerError:
		outcome = outcomeError
	case status == http.StatusConflict:
		outcome = outcomeConflict
	case status == http.StatusNotFound:
		outcome = outcomeNotFound
	default:
		outcome = outcomeError
	}
	// only unreachable or failing clusters count against the breaker
	done(err == nil || (status != 0 && status < http.StatusInternalServerError))
	metrics.ObserveBackend(op, outcome, elapsed)

	if err == nil || status != 0 {
		return err
	}
	if stderrors.Is(callCtx.Err(), context.DeadlineExceeded) {
		slog.ErrorContext(ctx, "opensearch request timed out", "operation", op, "timeout", b.timeout)
		return errors.NewServiceUnavailable("backend timeout", err)
	}
	slog.ErrorContext(ctx, "opensearch request failed", "operation", op, "error", err)
	return errors.NewServiceUnavailable("backend error", err)
}

// clamp bounds from and size by the result window.
func (b *Backend) clamp(query *model.CompiledQuery) *model.CompiledQuery {
	if query.From == nil && query.Size == nil {
		return query
	}
	clamped := *query
	from := 0
	if query.From != nil {
		from = min(*query.From, b.window-1)
		clamped.From = &from
	}
	if query.Size != nil {
		size := min(*query.Size, b.window-from)
		clamped.Size = &size
	}
	return &clamped
}

func statusOf(err error) int {
	var ae *apiError
	if stderrors.As(err, &ae) {
		return ae.status
	}
	return 0
}

// indexMissing reports a read against an index that has not been created;
// it is created by the first write.
func indexMissing(err error) bool {
	var ae *apiError
	return stderrors.As(err, &ae) && ae.status == http.StatusNotFound && ae.kind == "index_not_found_exception"
}

func readError(op string, err error) error {
	var ae *apiError
	if !stderrors.As(err, &ae) {
		return err
	}
	return statusError(op, ae)
}

// writeError maps write statuses. 409 is a lost race on create or a version
// mismatch on replace and delete; 404 is a document deleted between the
// existence check and the write.
func writeError(op string, err error) error {
	var ae *apiError
	if !stderrors.As(err, &ae) {
		return err
	}
	switch ae.status {
	case http.StatusConflict:
		return errors.NewConflict(op+" version conflict", ae)
	case http.StatusNotFound:
		return errors.NewNotFound(op+" target not found", ae)
	}
	return statusError(op, ae)
}

func statusError(op string, ae *apiError) error {
	return errors.NewServiceUnavailable("backend error", fmt.Errorf("opensearch %s: %w", op, ae))
}

// NewBackend returns a Backend connected to the configured cluster
func NewBackend(ctx context.Context, config Config, opts ...Option) (port.Backend, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.Index == "" {
		slog.ErrorContext(ctx, "opensearch index is required")
		return nil, fmt.Errorf("opensearch index is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:    []string{config.URL},
			Username:     config.Username,
			Password:     config.Password,
			DisableRetry: true,
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: config.Timeout,
				DialContext:           (&net.Dialer{Timeout: config.Timeout}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return newBackend(&httpClient{client: opensearchClient}, config, opts...), nil
}

func newBackend(t transport, config Config, opts ...Option) *Backend {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.MaxResultWindow <= 0 {
		config.MaxResultWindow = constants.MaxResultWindow
	}
	if config.Refresh == "" {
		config.Refresh = defaultRefresh
	}
	b := &Backend{
		transport: t,
		index:     config.Index,
		timeout:   config.Timeout,
		refresh:   config.Refresh,
		window:    config.MaxResultWindow,
		breaker:   nopBreaker{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}
