// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// Call records one backend operation received by MockBackend
type Call struct {
	Op     string
	Query  *model.CompiledQuery
	Handle model.DocumentHandle
}

// MockBackend is an in-memory implementation of port.Backend. It evaluates the
// subset of the query language the catalogue emits: term, match, query_string
// and should-disjunctions. Geo clauses match every document.
type MockBackend struct {
	mu        sync.Mutex
	documents map[string]map[string]any
	raw       map[string]json.RawMessage
	seqNo     int64
	calls     []Call

	searchError  error
	countError   error
	createError  error
	replaceError error
	deleteError  error
	isReadyError error
}

// NewMockBackend creates an empty store.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		documents: make(map[string]map[string]any),
		raw:       make(map[string]json.RawMessage),
	}
}

// Handle returns the handle the mock assigns to a catalogue id.
func Handle(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// AddDocument stores a document directly, bypassing Create.
func (m *MockBackend) AddDocument(document string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.put(json.RawMessage(document)); err != nil {
		panic(err)
	}
}

func (m *MockBackend) put(document json.RawMessage) error {
	var parsed map[string]any
	if err := json.Unmarshal(document, &parsed); err != nil {
		return err
	}
	id, _ := parsed[constants.IDField].(string)
	handle := Handle(id)
	m.documents[handle] = parsed
	m.raw[handle] = document
	m.seqNo++
	return nil
}

// Search implements port.Backend.
func (m *MockBackend) Search(ctx context.Context, query *model.CompiledQuery) (*model.Hits, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "search", Query: query})

	if m.searchError != nil {
		return nil, m.searchError
	}

	handles := m.matching(query)
	result := &model.Hits{Total: len(handles), Hits: []model.Hit{}}

	from := 0
	if query.From != nil {
		from = *query.From
	}
	size := len(handles)
	if query.Size != nil {
		size = *query.Size
	}
	for i := from; i < len(handles) && i < from+size; i++ {
		h := handles[i]
		seq, term := m.seqNo, int64(1)
		hit := model.Hit{Handle: model.DocumentHandle{ID: h, SeqNo: &seq, PrimaryTerm: &term}}
		hit.Source = m.project(h, query.Source)
		result.Hits = append(result.Hits, hit)
	}

	slog.DebugContext(ctx, "mock backend search", "total", result.Total, "returned", len(result.Hits))
	return result, nil
}

// Count implements port.Backend.
func (m *MockBackend) Count(ctx context.Context, query *model.CompiledQuery) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "count", Query: query})

	if m.countError != nil {
		return 0, m.countError
	}
	return len(m.matching(query)), nil
}

// Create implements port.Backend.
func (m *MockBackend) Create(ctx context.Context, id string, document []byte) (model.DocumentHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle := model.DocumentHandle{ID: Handle(id)}
	m.calls = append(m.calls, Call{Op: "create", Handle: handle})

	if m.createError != nil {
		return model.DocumentHandle{}, m.createError
	}
	if _, exists := m.documents[handle.ID]; exists {
		return model.DocumentHandle{}, errors.NewConflict("document already exists")
	}
	if err := m.put(json.RawMessage(document)); err != nil {
		return model.DocumentHandle{}, errors.NewUnexpected("invalid document", err)
	}
	return handle, nil
}

// Replace implements port.Backend.
func (m *MockBackend) Replace(ctx context.Context, handle model.DocumentHandle, document []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "replace", Handle: handle})

	if m.replaceError != nil {
		return m.replaceError
	}
	if _, exists := m.documents[handle.ID]; !exists {
		return errors.NewNotFound("document not found")
	}
	return m.put(json.RawMessage(document))
}

// Delete implements port.Backend.
func (m *MockBackend) Delete(ctx context.Context, handle model.DocumentHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: "delete", Handle: handle})

	if m.deleteError != nil {
		return m.deleteError
	}
	if _, exists := m.documents[handle.ID]; !exists {
		return errors.NewNotFound("document not found")
	}
	delete(m.documents, handle.ID)
	delete(m.raw, handle.ID)
	return nil
}

// IsReady implements port.Backend.
func (m *MockBackend) IsReady(ctx context.Context) error {
	return m.isReadyError
}

// Calls returns the operations received so far.
func (m *MockBackend) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Len returns the number of stored documents.
func (m *MockBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.documents)
}

// SetSearchError makes every Search fail with err
func (m *MockBackend) SetSearchError(err error) { m.searchError = err }

// SetCountError makes every Count fail with err
func (m *MockBackend) SetCountError(err error) { m.countError = err }

// SetCreateError makes every Create fail with err
func (m *MockBackend) SetCreateError(err error) { m.createError = err }

// SetReplaceError makes every Replace fail with err
func (m *MockBackend) SetReplaceError(err error) { m.replaceError = err }

// SetDeleteError makes every Delete fail with err
func (m *MockBackend) SetDeleteError(err error) { m.deleteError = err }

// SetIsReadyError makes IsReady fail with err
func (m *MockBackend) SetIsReadyError(err error) { m.isReadyError = err }

func (m *MockBackend) matching(query *model.CompiledQuery) []string {
	handles := make([]string, 0, len(m.documents))
	for h, doc := range m.documents {
		if allMatch(doc, query.Query.Bool.Filter) && allMatch(doc, query.Query.Bool.Must) {
			handles = append(handles, h)
		}
	}
	sort.Slice(handles, func(i, j int) bool {
		return fmt.Sprint(m.documents[handles[i]][constants.IDField]) < fmt.Sprint(m.documents[handles[j]][constants.IDField])
	})
	return handles
}

func (m *MockBackend) project(handle string, source *model.SourceFilter) json.RawMessage {
	if source == nil {
		return m.raw[handle]
	}
	if source.Disabled {
		return nil
	}
	projected := make(map[string]any, len(source.Fields))
	for _, f := range source.Fields {
		if v, ok := m.documents[handle][f]; ok {
			projected[f] = v
		}
	}
	out, _ := json.Marshal(projected)
	return out
}

func allMatch(doc map[string]any, clauses []model.Clause) bool {
	for _, c := range clauses {
		if !clauseMatches(doc, c) {
			return false
		}
	}
	return true
}

func clauseMatches(doc map[string]any, c model.Clause) bool {
	switch {
	case c.Term != nil:
		for field, value := range c.Term {
			if !containsValue(lookup(doc, field), value, true) {
				return false
			}
		}
		return true
	case c.Match != nil:
		for field, value := range c.Match {
			if !containsValue(lookup(doc, field), value, strings.HasSuffix(field, constants.KeywordSuffix)) {
				return false
			}
		}
		return true
	case c.QueryString != nil:
		raw, _ := json.Marshal(doc)
		return strings.Contains(strings.ToLower(string(raw)), strings.ToLower(c.QueryString.Query))
	case c.Bool != nil:
		// OpenSearch treats a bool query without should clauses as match-all
		if len(c.Bool.Should) == 0 {
			return true
		}
		for _, s := range c.Bool.Should {
			if clauseMatches(doc, s) {
				return true
			}
		}
		return false
	}
	return true
}

func lookup(doc map[string]any, field string) any {
	field = strings.TrimSuffix(field, constants.KeywordSuffix)
	var current any = doc
	for _, part := range strings.Split(field, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[part]
	}
	return current
}

// containsValue compares exactly for keyword fields and by token otherwise.
func containsValue(v any, want string, exact bool) bool {
	switch typed := v.(type) {
	case string:
		if exact {
			return typed == want
		}
		for _, token := range strings.FieldsFunc(strings.ToLower(typed), func(r rune) bool {
			return r == '/' || r == ' ' || r == ',' || r == '-'
		}) {
			if token == strings.ToLower(want) {
				return true
			}
		}
		return false
	case []any:
		for _, e := range typed {
			if containsValue(e, want, exact) {
				return true
			}
		}
	}
	return false
}
