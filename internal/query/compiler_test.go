// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var v errors.Validation
	require.True(t, stderrors.As(err, &v), "expected validation error, got %T", err)
	return v.Reason()
}

func TestCompileGeo(t *testing.T) {
	tests := []struct {
		name           string
		request        model.SearchRequest
		expectedReason string
		expectedJSON   string
	}{
		{
			name: "point near becomes circle with radius in meters",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPoint,
				GeoRel:      model.GeoRelNear,
				Coordinates: json.RawMessage(`[73.9,18.6]`),
				GeoProperty: "location",
				MaxDistance: intPtr(500),
			},
			expectedJSON: `{
				"size": 10,
				"query": {"bool": {
					"filter": [{"geo_shape": {"location.geometry": {
						"relation": "intersects",
						"shape": {"type": "circle", "coordinates": [73.9,18.6], "radius": "500m"}
					}}}],
					"must": []
				}}
			}`,
		},
		{
			name: "closed polygon",
			request: model.SearchRequest{
				Operation:   model.OperationCount,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPolygon,
				GeoRel:      model.GeoRelWithin,
				Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,0]]]`),
				GeoProperty: "location",
			},
			expectedJSON: `{
				"query": {"bool": {
					"filter": [{"geo_shape": {"location.geometry": {
						"relation": "within",
						"shape": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
					}}}],
					"must": []
				}}
			}`,
		},
		{
			name: "bbox becomes envelope",
			request: model.SearchRequest{
				Operation:   model.OperationCount,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryBbox,
				GeoRel:      model.GeoRelIntersects,
				Coordinates: json.RawMessage(`[[73,19],[74,18]]`),
				GeoProperty: "location",
			},
			expectedJSON: `{
				"query": {"bool": {
					"filter": [{"geo_shape": {"location.geometry": {
						"relation": "intersects",
						"shape": {"type": "envelope", "coordinates": [[73,19],[74,18]]}
					}}}],
					"must": []
				}}
			}`,
		},
		{
			name: "open polygon ring",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPolygon,
				GeoRel:      model.GeoRelWithin,
				Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,1]]]`),
				GeoProperty: "location",
			},
			expectedReason: ReasonInvalidPolygon,
		},
		{
			name: "polygon ring differing only in latitude",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPolygon,
				GeoRel:      model.GeoRelWithin,
				Coordinates: json.RawMessage(`[[[0,0],[1,0],[1,1],[0,2]]]`),
				GeoProperty: "location",
			},
			expectedReason: ReasonInvalidPolygon,
		},
		{
			name: "point without maxDistance",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPoint,
				GeoRel:      model.GeoRelNear,
				Coordinates: json.RawMessage(`[73.9,18.6]`),
				GeoProperty: "location",
			},
			expectedReason: ReasonInvalidGeoParameter,
		},
		{
			name: "maxDistance above ceiling",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryPoint,
				GeoRel:      model.GeoRelNear,
				Coordinates: json.RawMessage(`[73.9,18.6]`),
				GeoProperty: "location",
				MaxDistance: intPtr(10001),
			},
			expectedReason: ReasonInvalidGeoParameter,
		},
		{
			name: "missing geoproperty",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    model.GeometryLineString,
				GeoRel:      model.GeoRelIntersects,
				Coordinates: json.RawMessage(`[[0,0],[1,1]]`),
			},
			expectedReason: ReasonInvalidGeoParameter,
		},
		{
			name: "unknown geometry",
			request: model.SearchRequest{
				Operation:   model.OperationSearch,
				SearchType:  model.SearchTypeGeo,
				Geometry:    "Circle",
				GeoRel:      model.GeoRelWithin,
				Coordinates: json.RawMessage(`[0,0]`),
				GeoProperty: "location",
			},
			expectedReason: ReasonInvalidGeoParameter,
		},
	}

	compiler := NewCompiler()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			q, err := compiler.Compile(context.Background(), tc.request)
			if tc.expectedReason != "" {
				assertion.Nil(q)
				assertion.Equal(tc.expectedReason, reasonOf(t, err))
				return
			}
			require.NoError(t, err)
			assertion.Equal(model.SearchTypeGeo, q.Facets)

			out, err := json.Marshal(q)
			require.NoError(t, err)
			assertion.JSONEq(tc.expectedJSON, string(out))
		})
	}
}

func TestCompileAttributeSearch(t *testing.T) {
	assertion := assert.New(t)

	q, err := NewCompiler().Compile(context.Background(), model.SearchRequest{
		Operation:  model.OperationSearch,
		SearchType: model.SearchTypeAttribute,
		Property:   []string{"tags", "id", "name.keyword", "location.address"},
		Value:      [][]string{{"a", "b"}, {"x"}, {"n"}, {"pune"}},
	})
	require.NoError(t, err)
	assertion.Len(q.Query.Bool.Must, 4)
	assertion.Empty(q.Query.Bool.Filter)
	assertion.Equal(model.SearchTypeAttribute, q.Facets)

	out, err := json.Marshal(q.Query.Bool.Must)
	require.NoError(t, err)
	assertion.JSONEq(`[
		{"bool": {"should": [{"match": {"tags": "a"}}, {"match": {"tags": "b"}}]}},
		{"bool": {"should": [{"match": {"id.keyword": "x"}}]}},
		{"bool": {"should": [{"match": {"name.keyword": "n"}}]}},
		{"bool": {"should": [{"match": {"location.address": "pune"}}]}}
	]`, string(out))
}

func TestCompileRejections(t *testing.T) {
	tests := []struct {
		name           string
		request        model.SearchRequest
		expectedReason string
	}{
		{
			name: "property and value length mismatch",
			request: model.SearchRequest{
				Operation:  model.OperationSearch,
				SearchType: model.SearchTypeAttribute,
				Property:   []string{"a", "b"},
				Value:      [][]string{{"x"}},
			},
			expectedReason: ReasonInvalidParameter,
		},
		{
			name: "empty value group",
			request: model.SearchRequest{
				Operation:  model.OperationSearch,
				SearchType: model.SearchTypeAttribute,
				Property:   []string{"tags", "type"},
				Value:      [][]string{{"water"}, {}},
			},
			expectedReason: ReasonInvalidParameter,
		},
		{
			name: "response filter on count",
			request: model.SearchRequest{
				Operation:  model.OperationCount,
				SearchType: model.SearchTypeResponseFilter,
				Filter:     []string{"id"},
			},
			expectedReason: ReasonCountUnsupported,
		},
		{
			name: "response filter without projection",
			request: model.SearchRequest{
				Operation:  model.OperationSearch,
				SearchType: model.SearchTypeResponseFilter,
			},
			expectedReason: ReasonInvalidResponseFilter,
		},
		{
			name: "pagination only",
			request: model.SearchRequest{
				Operation: model.OperationSearch,
				Limit:     intPtr(5),
			},
			expectedReason: ReasonInvalidSearch,
		},
		{
			name: "blank text",
			request: model.SearchRequest{
				Operation:  model.OperationSearch,
				SearchType: model.SearchTypeText,
				Q:          "  ",
			},
			expectedReason: ReasonInvalidSearch,
		},
		{
			name: "negative offset",
			request: model.SearchRequest{
				Operation: model.OperationSearch,
				Q:         "water",
				Offset:    intPtr(-1),
			},
			expectedReason: ReasonInvalidPaginationValue,
		},
	}

	compiler := NewCompiler()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)
			q, err := compiler.Compile(context.Background(), tc.request)
			assertion.Nil(q)
			assertion.Equal(tc.expectedReason, reasonOf(t, err))
		})
	}
}

func TestCompileResponseFilterPrefersAttribute(t *testing.T) {
	assertion := assert.New(t)

	q, err := NewCompiler().Compile(context.Background(), model.SearchRequest{
		Operation:  model.OperationSearch,
		SearchType: model.SearchTypeResponseFilter,
		Attribute:  []string{"id"},
		Filter:     []string{"name"},
	})
	require.NoError(t, err)
	require.NotNil(t, q.Source)
	assertion.Equal([]string{"id"}, q.Source.Fields)
	assertion.Equal(model.SearchTypeResponseFilter, q.Facets)
}

func TestCompileTextWithPagination(t *testing.T) {
	assertion := assert.New(t)

	q, err := NewCompiler().Compile(context.Background(), model.SearchRequest{
		Operation: model.OperationSearch,
		Q:         "air quality",
		Limit:     intPtr(25),
		Offset:    intPtr(50),
	})
	require.NoError(t, err)
	assertion.Equal(model.SearchTypeText, q.Facets)
	assertion.Equal(25, *q.Size)
	assertion.Equal(50, *q.From)

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assertion.JSONEq(`{
		"size": 25,
		"from": 50,
		"query": {"bool": {"filter": [], "must": [{"query_string": {"query": "air quality"}}]}}
	}`, string(out))
}

func TestCompileCountHasNoDefaultSize(t *testing.T) {
	q, err := NewCompiler().Compile(context.Background(), model.SearchRequest{
		Operation: model.OperationCount,
		Q:         "water",
	})
	require.NoError(t, err)
	assert.Nil(t, q.Size)
}

func TestCompileCustomMaxDistance(t *testing.T) {
	compiler := NewCompiler(WithMaxDistance(100))
	_, err := compiler.Compile(context.Background(), model.SearchRequest{
		Operation:   model.OperationSearch,
		SearchType:  model.SearchTypeGeo,
		Geometry:    model.GeometryPoint,
		GeoRel:      model.GeoRelNear,
		Coordinates: json.RawMessage(`[1,2]`),
		GeoProperty: "location",
		MaxDistance: intPtr(500),
	})
	assert.Equal(t, ReasonInvalidGeoParameter, reasonOf(t, err))
}

func TestExistenceQuery(t *testing.T) {
	out, err := json.Marshal(ExistenceQuery("a/b/c"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"size": 1,
		"_source": false,
		"seq_no_primary_term": true,
		"query": {"bool": {"filter": [], "must": [{"term": {"id.keyword": "a/b/c"}}]}}
	}`, string(out))
}
