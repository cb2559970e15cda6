// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/errors"
)

const (
	// maxProperties bounds the property list of an attribute search
	maxProperties = 4
	// maxValues bounds each value group of an attribute search
	maxValues = 4
)

// paramsToRequest converts search query parameters into a SearchRequest
func paramsToRequest(params url.Values, operation model.Operation) (model.SearchRequest, error) {
	req := model.SearchRequest{
		Operation:   operation,
		Geometry:    model.Geometry(params.Get("geometry")),
		GeoRel:      model.GeoRel(params.Get("georel")),
		GeoProperty: params.Get("geoproperty"),
		Q:           params.Get("q"),
	}

	if raw := params.Get("searchType"); raw != "" {
		searchType, err := model.ParseSearchType(raw)
		if err != nil {
			return req, errors.NewValidationReason(query.ReasonInvalidSearchType, "invalid searchType", err)
		}
		req.SearchType = searchType
	}

	if raw := strings.TrimSpace(params.Get("coordinates")); raw != "" {
		if !json.Valid([]byte(raw)) {
			return req, errors.NewValidationReason(query.ReasonInvalidGeoParameter, "coordinates must be a JSON array")
		}
		req.Coordinates = json.RawMessage(raw)
	}

	if raw := params.Get("maxDistance"); raw != "" {
		distance, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.NewValidationReason(query.ReasonInvalidGeoParameter, "maxDistance must be an integer", err)
		}
		req.MaxDistance = &distance
	}

	if raw := params.Get("property"); raw != "" {
		req.Property = parseList(raw)
		if len(req.Property) > maxProperties {
			return req, errors.NewValidationReason(query.ReasonInvalidParameter, "too many properties")
		}
	}
	if raw := params.Get("value"); raw != "" {
		req.Value = parseNestedList(raw)
		for _, group := range req.Value {
			if len(group) > maxValues {
				return req, errors.NewValidationReason(query.ReasonInvalidParameter, "too many values")
			}
		}
	}

	if raw := params.Get("attribute"); raw != "" {
		req.Attribute = parseList(raw)
	}
	if raw := params.Get("filter"); raw != "" {
		req.Filter = parseList(raw)
	}

	for name, target := range map[string]**int{"limit": &req.Limit, "offset": &req.Offset} {
		raw := params.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.NewValidationReason(query.ReasonInvalidPaginationValue, name+" must be an integer", err)
		}
		*target = &v
	}

	return req, nil
}

// parseList accepts a JSON string array, a bracketed list or a bare
// comma separated list.
func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}

// parseNestedList reads "[[a,b],[c]]". A flat list is a single group.
func parseNestedList(raw string) [][]string {
	raw = strings.TrimSpace(raw)
	var nested [][]string
	if err := json.Unmarshal([]byte(raw), &nested); err == nil {
		return nested
	}

	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]"))
	if !strings.Contains(inner, "[") {
		if group := parseList(inner); len(group) > 0 {
			return [][]string{group}
		}
		return nil
	}

	depth, start := 0, -1
	for i, r := range inner {
		switch r {
		case '[':
			if depth == 0 {
				start = i
			}
			depth++
		case ']':
			depth--
			if depth == 0 && start >= 0 {
				nested = append(nested, parseList(inner[start:i+1]))
				start = -1
			}
		}
	}
	return nested
}
