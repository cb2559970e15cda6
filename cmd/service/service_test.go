// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/iudx/catalogue-service/internal/infrastructure/mock"
	"github.com/iudx/catalogue-service/internal/infrastructure/schema"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	groupDoc    = `{"id":"a/b/c","itemType":"iudx:ResourceGroup","name":"air quality"}`
	resourceDoc = `{"id":"a/b/c/d","itemType":"iudx:Resource","resourceGroup":"a/b/c","name":"aqm sensor","tags":["aqm"]}`
)

type fixture struct {
	backend   *mock.MockBackend
	publisher *mock.MockEventPublisher
	handler   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	validator, err := schema.NewDefaultValidator()
	require.NoError(t, err)

	f := &fixture{
		backend:   mock.NewMockBackend(),
		publisher: mock.NewMockEventPublisher(),
	}
	f.handler = NewCatalogueHandler(f.backend, f.publisher, mock.NewMockAuthService("test-user"), validator, query.NewCompiler())
	return f
}

func (f *fixture) do(method, target, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, constants.BasePath+target, strings.NewReader(body))
	if token != "" {
		req.Header.Set(constants.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	decoded := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestItemLifecycle(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(http.MethodPost, "/item", "tok", resourceDoc)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["status"])
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "a/b/c/d", results[0].(map[string]any)["id"])
	assert.Equal(t, "insert", results[0].(map[string]any)["method"])

	rec, body = f.do(http.MethodPost, "/item", "tok", resourceDoc)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "item already exists", body["description"])

	rec, body = f.do(http.MethodGet, "/item?id=a/b/c/d", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["totalHits"])
	got := body["results"].([]any)[0].(map[string]any)
	assert.Equal(t, "aqm sensor", got["name"])

	updated := strings.Replace(resourceDoc, "aqm sensor", "renamed", 1)
	rec, _ = f.do(http.MethodPut, "/item", "tok", updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body = f.do(http.MethodGet, "/item?id=a/b/c/d", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "renamed", body["results"].([]any)[0].(map[string]any)["name"])

	rec, _ = f.do(http.MethodDelete, "/item?id=a/b/c/d", "tok", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = f.do(http.MethodDelete, "/item?id=a/b/c/d", "tok", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(http.MethodGet, "/item?id=a/b/c/d", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	events := f.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, constants.ActionCreated, events[0].Action)
	assert.Equal(t, constants.ActionUpdated, events[1].Action)
	assert.Equal(t, constants.ActionDeleted, events[2].Action)
	assert.Equal(t, "test-user", events[0].Principal)
}

func TestMutationRequiresToken(t *testing.T) {
	f := newFixture(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			rec, body := f.do(method, "/item?id=a/b/c/d", "", resourceDoc)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", body["error"])
		})
	}
	assert.Equal(t, 0, f.backend.Len())
	assert.Empty(t, f.backend.Calls())
}

func TestCreateRejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: `{"id":`},
		{name: "resource without group", body: `{"id":"a/b/c/d","itemType":"iudx:Resource"}`},
		{name: "unknown item type", body: `{"id":"a/b","itemType":"iudx:Unknown"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec, body := f.do(http.MethodPost, "/item", "tok", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "invalid-item", body["error"])
			assert.Equal(t, 0, f.backend.Len())
		})
	}
}

func TestSearchAndCount(t *testing.T) {
	f := newFixture(t)
	f.backend.AddDocument(groupDoc)
	f.backend.AddDocument(resourceDoc)

	rec, body := f.do(http.MethodGet, "/search?property=[tags]&value=[[aqm]]", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["totalHits"])

	rec, body = f.do(http.MethodGet, "/search?property=[tags]&value=[[flood]]", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["totalHits"])
	assert.Empty(t, body["results"])

	rec, body = f.do(http.MethodGet, "/search?q=sensor&filter=[id]", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, body["results"], 1)
	assert.Equal(t, map[string]any{"id": "a/b/c/d"}, body["results"].([]any)[0])

	rec, body = f.do(http.MethodGet, "/count?property=[tags]&value=[[aqm]]", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["count"])

	rec, body = f.do(http.MethodGet, "/count?property=[tags]&value=[[flood]]", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, body = f.do(http.MethodGet, "/search?geometry=Point&georel=near&coordinates=[1,2]&geoproperty=location&maxDistance=20000", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-geo-parameter", body["error"])
}

func TestSearchBackendUnavailable(t *testing.T) {
	f := newFixture(t)
	f.backend.SetSearchError(errors.NewServiceUnavailable("backend error"))

	rec, body := f.do(http.MethodGet, "/search?q=aqm", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "failed", body["status"])
}

func TestRelationship(t *testing.T) {
	f := newFixture(t)
	f.backend.AddDocument(groupDoc)
	f.backend.AddDocument(resourceDoc)

	rec, body := f.do(http.MethodGet, "/relationship?id=a/b/c&rel=resource", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["totalHits"])
	assert.Equal(t, "a/b/c/d", body["results"].([]any)[0].(map[string]any)["id"])

	rec, body = f.do(http.MethodGet, "/relationship?id=a/b/c&rel=cousin", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid-relationship", body["error"])
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "OK\n", rec.Body.String())
	}

	f.backend.SetIsReadyError(errors.NewServiceUnavailable("cluster red"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
