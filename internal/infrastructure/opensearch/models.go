// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"encoding/json"
	"time"
)

// Config represents OpenSearch configuration
type Config struct {
	URL      string `json:"url"`
	Index    string `json:"index"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Timeout bounds every call, including connection setup
	Timeout time.Duration `json:"timeout"`
	// Refresh is sent with writes so that the next existence check observes them
	Refresh string `json:"refresh"`
	// MaxResultWindow is the index setting index.max_result_window
	MaxResultWindow int `json:"max_result_window"`
}

// SearchResponse represents the OpenSearch search response
type SearchResponse struct {
	Hits `json:"hits"`
}

// CountResponse represents the OpenSearch count response
type CountResponse struct {
	Count int `json:"count"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total represents the total number of hits
type Total struct {
	Value int `json:"value"`
}

// Hit represents a single search result hit
type Hit struct {
	ID          string          `json:"_id"`
	SeqNo       *int64          `json:"_seq_no,omitempty"`
	PrimaryTerm *int64          `json:"_primary_term,omitempty"`
	Source      json.RawMessage `json:"_source"`
}

// WriteResponse is the body returned by document writes
type WriteResponse struct {
	ID          string `json:"_id"`
	Result      string `json:"result"`
	SeqNo       *int64 `json:"_seq_no,omitempty"`
	PrimaryTerm *int64 `json:"_primary_term,omitempty"`
}

// HealthResponse is the body of _cluster/health
type HealthResponse struct {
	Status string `json:"status"`
}
