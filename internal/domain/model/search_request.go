// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation distinguishes a hit listing from a bare count
type Operation string

const (
	OperationSearch Operation = "search"
	OperationCount  Operation = "count"
)

// SearchType is the set of facets a request asks for
type SearchType uint8

const (
	SearchTypeGeo SearchType = 1 << iota
	SearchTypeText
	SearchTypeAttribute
	SearchTypeResponseFilter
)

var searchTypeTokens = []struct {
	token string
	flag  SearchType
}{
	{"geoSearch_", SearchTypeGeo},
	{"textSearch_", SearchTypeText},
	{"attributeSearch_", SearchTypeAttribute},
	{"responseFilter_", SearchTypeResponseFilter},
}

// Has reports whether every flag in f is set.
func (s SearchType) Has(f SearchType) bool {
	return f != 0 && s&f == f
}

// String renders the token form, e.g. "geoSearch_attributeSearch_".
func (s SearchType) String() string {
	var b strings.Builder
	for _, t := range searchTypeTokens {
		if s.Has(t.flag) {
			b.WriteString(t.token)
		}
	}
	return b.String()
}

// ParseSearchType reads the concatenated token form. Unknown text between
// tokens is rejected.
func ParseSearchType(raw string) (SearchType, error) {
	var s SearchType
	rest := raw
	for rest != "" {
		matched := false
		for _, t := range searchTypeTokens {
			if strings.HasPrefix(rest, t.token) {
				s |= t.flag
				rest = rest[len(t.token):]
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("unknown search type %q", raw)
		}
	}
	return s, nil
}

// MarshalJSON writes the token form.
func (s SearchType) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads the token form.
func (s *SearchType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSearchType(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Geometry is the shape kind of a geo facet
type Geometry string

const (
	GeometryPoint      Geometry = "Point"
	GeometryPolygon    Geometry = "Polygon"
	GeometryLineString Geometry = "LineString"
	GeometryBbox       Geometry = "bbox"
)

// GeoRel is the spatial relation requested by a client
type GeoRel string

const (
	GeoRelWithin     GeoRel = "within"
	GeoRelNear       GeoRel = "near"
	GeoRelCoveredBy  GeoRel = "coveredBy"
	GeoRelIntersects GeoRel = "intersects"
	GeoRelEquals     GeoRel = "equals"
	GeoRelDisjoint   GeoRel = "disjoint"
)

// SearchRequest is a parsed catalogue search or count request.
type SearchRequest struct {
	Operation  Operation  `json:"operation"`
	SearchType SearchType `json:"searchType,omitempty"`

	Geometry    Geometry        `json:"geometry,omitempty"`
	GeoRel      GeoRel          `json:"georel,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	GeoProperty string          `json:"geoproperty,omitempty"`
	MaxDistance *int            `json:"maxDistance,omitempty"`

	Q string `json:"q,omitempty"`

	Property []string   `json:"property,omitempty"`
	Value    [][]string `json:"value,omitempty"`

	Attribute []string `json:"attribute,omitempty"`
	Filter    []string `json:"filter,omitempty"`

	Limit  *int `json:"limit,omitempty"`
	Offset *int `json:"offset,omitempty"`
}

// DeriveSearchType infers the facets from which parameters are present,
// used when the client does not send searchType explicitly.
func (r SearchRequest) DeriveSearchType() SearchType {
	var s SearchType
	if r.Geometry != "" || r.GeoRel != "" || len(r.Coordinates) > 0 {
		s |= SearchTypeGeo
	}
	if strings.TrimSpace(r.Q) != "" {
		s |= SearchTypeText
	}
	if len(r.Property) > 0 || len(r.Value) > 0 {
		s |= SearchTypeAttribute
	}
	if len(r.Attribute) > 0 || len(r.Filter) > 0 {
		s |= SearchTypeResponseFilter
	}
	return s
}
