// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	stderrors "errors"
	"net/url"
	"testing"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsToRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expected       func(*testing.T, model.SearchRequest)
		expectedReason string
	}{
		{
			name:  "geo parameters",
			query: "geoproperty=location&georel=near&geometry=Point&coordinates=[73.9,18.5]&maxDistance=500",
			expected: func(t *testing.T, req model.SearchRequest) {
				assert.Equal(t, model.GeometryPoint, req.Geometry)
				assert.Equal(t, model.GeoRelNear, req.GeoRel)
				assert.Equal(t, "location", req.GeoProperty)
				assert.JSONEq(t, `[73.9,18.5]`, string(req.Coordinates))
				require.NotNil(t, req.MaxDistance)
				assert.Equal(t, 500, *req.MaxDistance)
			},
		},
		{
			name:  "attribute lists in bracket form",
			query: "property=[tags,id]&value=[[aqm,flood],[a/b]]",
			expected: func(t *testing.T, req model.SearchRequest) {
				assert.Equal(t, []string{"tags", "id"}, req.Property)
				assert.Equal(t, [][]string{{"aqm", "flood"}, {"a/b"}}, req.Value)
			},
		},
		{
			name:  "attribute lists in JSON form",
			query: `property=["tags"]&value=[["aqm"]]`,
			expected: func(t *testing.T, req model.SearchRequest) {
				assert.Equal(t, []string{"tags"}, req.Property)
				assert.Equal(t, [][]string{{"aqm"}}, req.Value)
			},
		},
		{
			name:  "flat value list is one group",
			query: "property=[tags]&value=[aqm,flood]",
			expected: func(t *testing.T, req model.SearchRequest) {
				assert.Equal(t, [][]string{{"aqm", "flood"}}, req.Value)
			},
		},
		{
			name:  "response filter and pagination",
			query: "searchType=textSearch_responseFilter_&q=aqm&filter=[id,name]&limit=5&offset=10",
			expected: func(t *testing.T, req model.SearchRequest) {
				assert.True(t, req.SearchType.Has(model.SearchTypeText|model.SearchTypeResponseFilter))
				assert.Equal(t, "aqm", req.Q)
				assert.Equal(t, []string{"id", "name"}, req.Filter)
				require.NotNil(t, req.Limit)
				require.NotNil(t, req.Offset)
				assert.Equal(t, 5, *req.Limit)
				assert.Equal(t, 10, *req.Offset)
			},
		},
		{
			name:           "unknown search type",
			query:          "searchType=fuzzySearch_",
			expectedReason: "invalid-search-type",
		},
		{
			name:           "malformed coordinates",
			query:          "coordinates=[73.9,",
			expectedReason: "invalid-geo-parameter",
		},
		{
			name:           "non numeric distance",
			query:          "maxDistance=far",
			expectedReason: "invalid-geo-parameter",
		},
		{
			name:           "non numeric limit",
			query:          "limit=ten",
			expectedReason: "invalid-pagination",
		},
		{
			name:           "too many properties",
			query:          "property=[a,b,c,d,e]",
			expectedReason: "invalid-parameter",
		},
		{
			name:           "too many values",
			query:          "property=[a]&value=[[1,2,3,4,5]]",
			expectedReason: "invalid-parameter",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			req, err := paramsToRequest(params, model.OperationSearch)
			if tc.expectedReason != "" {
				var validation errors.Validation
				require.True(t, stderrors.As(err, &validation), "expected Validation, got %v", err)
				assert.Equal(t, tc.expectedReason, validation.Reason())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.OperationSearch, req.Operation)
			tc.expected(t, req)
		})
	}
}

func TestParseList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseList("[a, b]"))
	assert.Equal(t, []string{"a", "b"}, parseList("a,b"))
	assert.Equal(t, []string{"a"}, parseList(`["a"]`))
	assert.Nil(t, parseList("[]"))
}
