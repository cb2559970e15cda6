// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/iudx/catalogue-service/internal/domain/model"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// transport is the set of typed cluster calls the backend needs.
// This allows for easy mocking and testing
type transport interface {
	Search(ctx context.Context, index string, body []byte) (*SearchResponse, error)
	Count(ctx context.Context, index string, body []byte) (*CountResponse, error)
	Create(ctx context.Context, index, handle string, body []byte, refresh string) (*WriteResponse, error)
	Index(ctx context.Context, index string, handle model.DocumentHandle, body []byte, refresh string) (*WriteResponse, error)
	Delete(ctx context.Context, index string, handle model.DocumentHandle, refresh string) (*WriteResponse, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

// apiError is a call the cluster answered with an error status. status is
// zero when no response was received.
type apiError struct {
	status int
	kind   string
	err    error
}

func (e *apiError) Error() string {
	if e.kind != "" {
		return fmt.Sprintf("opensearch status %d (%s): %v", e.status, e.kind, e.err)
	}
	return fmt.Sprintf("opensearch status %d: %v", e.status, e.err)
}

func (e *apiError) Unwrap() error {
	return e.err
}

// inspect attaches the response status and error type to err.
func inspect(resp *opensearch.Response, err error) error {
	if err == nil {
		return nil
	}
	ae := &apiError{err: err}
	if resp != nil {
		ae.status = resp.StatusCode
	}
	var structErr *opensearch.StructError
	if stderrors.As(err, &structErr) {
		ae.kind = structErr.Err.Type
		if ae.status == 0 {
			ae.status = structErr.Status
		}
	}
	return ae
}

type httpClient struct {
	client *opensearchapi.Client
}

func (c *httpClient) Search(ctx context.Context, index string, body []byte) (*SearchResponse, error) {

	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"query", string(body),
	)

	searchResponse, err := c.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, inspect(searchResponse.Inspect().Response, err)
	}

	result := &SearchResponse{
		Hits: Hits{
			Total: Total{Value: searchResponse.Hits.Total.Value},
			Hits:  make([]Hit, len(searchResponse.Hits.Hits)),
		},
	}
	for i, hit := range searchResponse.Hits.Hits {
		result.Hits.Hits[i] = Hit{
			ID:          hit.ID,
			SeqNo:       toInt64(hit.SeqNo),
			PrimaryTerm: toInt64(hit.PrimaryTerm),
			Source:      hit.Source,
		}
	}
	return result, nil
}

func (c *httpClient) Count(ctx context.Context, index string, body []byte) (*CountResponse, error) {
	countResponse, err := c.client.Indices.Count(ctx, &opensearchapi.IndicesCountReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, inspect(countResponse.Inspect().Response, err)
	}
	return &CountResponse{Count: countResponse.Count}, nil
}

func (c *httpClient) Create(ctx context.Context, index, handle string, body []byte, refresh string) (*WriteResponse, error) {
	createResponse, err := c.client.Document.Create(ctx, opensearchapi.DocumentCreateReq{
		Index:      index,
		DocumentID: handle,
		Body:       bytes.NewReader(body),
		Params:     opensearchapi.DocumentCreateParams{Refresh: refresh},
	})
	if err != nil {
		return nil, inspect(createResponse.Inspect().Response, err)
	}
	return writeResponse(createResponse.ID, createResponse.Result, createResponse.SeqNo, createResponse.PrimaryTerm), nil
}

func (c *httpClient) Index(ctx context.Context, index string, handle model.DocumentHandle, body []byte, refresh string) (*WriteResponse, error) {
	params := opensearchapi.IndexParams{Refresh: refresh}
	params.IfSeqNo, params.IfPrimaryTerm = version(handle)

	indexResponse, err := c.client.Index(ctx, opensearchapi.IndexReq{
		Index:      index,
		DocumentID: handle.ID,
		Body:       bytes.NewReader(body),
		Params:     params,
	})
	if err != nil {
		return nil, inspect(indexResponse.Inspect().Response, err)
	}
	return writeResponse(indexResponse.ID, indexResponse.Result, indexResponse.SeqNo, indexResponse.PrimaryTerm), nil
}

func (c *httpClient) Delete(ctx context.Context, index string, handle model.DocumentHandle, refresh string) (*WriteResponse, error) {
	params := opensearchapi.DocumentDeleteParams{Refresh: refresh}
	params.IfSeqNo, params.IfPrimaryTerm = version(handle)

	deleteResponse, err := c.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: handle.ID,
		Params:     params,
	})
	if err != nil {
		return nil, inspect(deleteResponse.Inspect().Response, err)
	}
	return writeResponse(deleteResponse.ID, deleteResponse.Result, deleteResponse.SeqNo, deleteResponse.PrimaryTerm), nil
}

func (c *httpClient) Health(ctx context.Context) (*HealthResponse, error) {
	healthResponse, err := c.client.Cluster.Health(ctx, nil)
	if err != nil {
		return nil, inspect(healthResponse.Inspect().Response, err)
	}
	return &HealthResponse{Status: healthResponse.Status}, nil
}

// version returns the optimistic concurrency parameters of handle, or nils
// when the existence check did not report them.
func version(handle model.DocumentHandle) (seqNo, primaryTerm *int) {
	if handle.SeqNo == nil || handle.PrimaryTerm == nil {
		return nil, nil
	}
	s, p := int(*handle.SeqNo), int(*handle.PrimaryTerm)
	return &s, &p
}

func writeResponse(id, result string, seqNo, primaryTerm int) *WriteResponse {
	s, p := int64(seqNo), int64(primaryTerm)
	return &WriteResponse{ID: id, Result: result, SeqNo: &s, PrimaryTerm: &p}
}

func toInt64(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
