// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// Method is the kind of mutation a lifecycle result describes
type Method string

const (
	MethodInsert Method = "insert"
	MethodUpdate Method = "update"
	MethodDelete Method = "delete"
)

// Status is the outcome of an operation as reported to clients
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// LifecycleResult describes the outcome of one create, update or delete call.
type LifecycleResult struct {
	ID          string `json:"id"`
	Method      Method `json:"method"`
	Status      Status `json:"status"`
	Description string `json:"description,omitempty"`
}

// Succeeded reports whether the mutation was applied.
func (r *LifecycleResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// SearchResult is the outcome of a search or relationship query.
type SearchResult struct {
	TotalHits int               `json:"totalHits"`
	Results   []json.RawMessage `json:"results"`
}

// CountResult is the outcome of a count query.
type CountResult struct {
	Count int `json:"count"`
}

// DocumentHandle identifies a stored document inside the backend. SeqNo and
// PrimaryTerm are set when the backend returned them and guard conditional writes.
type DocumentHandle struct {
	ID          string
	SeqNo       *int64
	PrimaryTerm *int64
}

// Hit is a single backend match
type Hit struct {
	Handle DocumentHandle
	Source json.RawMessage
}

// Hits is the decoded result of a backend search.
type Hits struct {
	Total int
	Hits  []Hit
}

// ItemEvent is published after an item mutation is applied.
type ItemEvent struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	ItemType   ItemType        `json:"item_type,omitempty"`
	Action     string          `json:"action"`
	Principal  string          `json:"principal,omitempty"`
	RequestID  string          `json:"request_id,omitempty"`
	OccurredAt string          `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}
