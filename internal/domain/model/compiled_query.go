// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// CompiledQuery is the backend request body produced by the query compiler.
type CompiledQuery struct {
	Query  QueryBody     `json:"query"`
	Size   *int          `json:"size,omitempty"`
	From   *int          `json:"from,omitempty"`
	Source *SourceFilter `json:"_source,omitempty"`

	// Facets records which facets contributed to the query. Not sent to the backend.
	Facets SearchType `json:"-"`

	// SeqNoPrimaryTerm asks the backend to return optimistic concurrency tokens with each hit.
	SeqNoPrimaryTerm bool `json:"seq_no_primary_term,omitempty"`
}

// QueryBody wraps the root boolean query
type QueryBody struct {
	Bool BoolQuery `json:"bool"`
}

// BoolQuery is the root boolean query. Both lists are always serialized.
type BoolQuery struct {
	Filter []Clause `json:"filter"`
	Must   []Clause `json:"must"`
}

// NewCompiledQuery returns an empty query with both clause lists initialized.
func NewCompiledQuery() *CompiledQuery {
	return &CompiledQuery{
		Query: QueryBody{
			Bool: BoolQuery{
				Filter: []Clause{},
				Must:   []Clause{},
			},
		},
	}
}

// CountBody is the subset of a compiled query the count endpoint accepts.
func (q *CompiledQuery) CountBody() any {
	return struct {
		Query QueryBody `json:"query"`
	}{Query: q.Query}
}

// Clause is one leaf or nested boolean of the query tree. Exactly one field is set.
type Clause struct {
	GeoShape    map[string]GeoShapeQuery `json:"geo_shape,omitempty"`
	QueryString *QueryStringQuery        `json:"query_string,omitempty"`
	Match       map[string]string        `json:"match,omitempty"`
	Term        map[string]string        `json:"term,omitempty"`
	Bool        *ShouldQuery             `json:"bool,omitempty"`
}

// GeoShapeQuery matches documents against a shape
type GeoShapeQuery struct {
	Relation string `json:"relation"`
	Shape    Shape  `json:"shape"`
}

// Shape is a GeoJSON-like shape as the backend understands it.
type Shape struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Radius      string          `json:"radius,omitempty"`
}

// QueryStringQuery is a full text query
type QueryStringQuery struct {
	Query string `json:"query"`
}

// ShouldQuery is a disjunction of clauses
type ShouldQuery struct {
	Should []Clause `json:"should"`
}

// SourceFilter controls which document fields come back with each hit.
// Disabled serializes as false, otherwise the field list is sent.
type SourceFilter struct {
	Fields   []string
	Disabled bool
}

// MarshalJSON renders false or the field list.
func (s SourceFilter) MarshalJSON() ([]byte, error) {
	if s.Disabled {
		return []byte("false"), nil
	}
	fields := s.Fields
	if fields == nil {
		fields = []string{}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON accepts false, true or a field list.
func (s *SourceFilter) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		s.Disabled = !flag
		s.Fields = nil
		return nil
	}
	s.Disabled = false
	return json.Unmarshal(data, &s.Fields)
}

// TermClause matches an exact value.
func TermClause(field, value string) Clause {
	return Clause{Term: map[string]string{field: value}}
}

// MatchClause matches an analyzed value.
func MatchClause(field, value string) Clause {
	return Clause{Match: map[string]string{field: value}}
}
