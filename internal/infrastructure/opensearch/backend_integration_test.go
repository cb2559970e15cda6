// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

//go:build integration

package opensearch

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/internal/service"
	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startOpenSearch(ctx context.Context, t *testing.T) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "opensearchproject/opensearch:2.17.0",
		ExposedPorts: []string{"9200/tcp"},
		Env: map[string]string{
			"discovery.type":              "single-node",
			"DISABLE_SECURITY_PLUGIN":     "true",
			"DISABLE_INSTALL_DEMO_CONFIG": "true",
			"OPENSEARCH_JAVA_OPTS":        "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForHTTP("/_cluster/health").WithPort("9200/tcp").WithStartupTimeout(2 * time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9200/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestItemLifecycleAgainstOpenSearch(t *testing.T) {
	assertion := assert.New(t)
	ctx := context.Background()

	url := startOpenSearch(ctx, t)
	backend, err := NewBackend(ctx, Config{URL: url, Index: "catalogue", Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.NoError(t, backend.IsReady(ctx))

	repo := service.NewItemRepository(backend)
	item, err := model.NewCatalogItem([]byte(`{"id":"a/b/c/d","itemType":"iudx:Resource","resourceGroup":"a/b/c","tags":["air"]}`))
	require.NoError(t, err)

	result, err := repo.Create(ctx, item)
	require.NoError(t, err)
	assertion.True(result.Succeeded())

	_, err = repo.Create(ctx, item)
	var conflict errors.Conflict
	assertion.True(stderrors.As(err, &conflict))

	search := service.NewCatalogueSearch(query.NewCompiler(), backend)
	found, err := search.Search(ctx, model.SearchRequest{
		Property: []string{"tags"},
		Value:    [][]string{{"air"}},
	})
	require.NoError(t, err)
	assertion.Equal(1, found.TotalHits)

	result, err = repo.Delete(ctx, "a/b/c/d")
	require.NoError(t, err)
	assertion.True(result.Succeeded())

	_, err = repo.Delete(ctx, "a/b/c/d")
	var notFound errors.NotFound
	assertion.True(stderrors.As(err, &notFound))
}
