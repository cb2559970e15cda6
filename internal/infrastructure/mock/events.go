// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/iudx/catalogue-service/internal/domain/model"
)

// MockEventPublisher keeps published events in memory
type MockEventPublisher struct {
	mu           sync.Mutex
	events       []model.ItemEvent
	publishError error
}

// NewMockEventPublisher creates a publisher that records events.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event, or fails if an error was set
func (m *MockEventPublisher) Publish(ctx context.Context, event model.ItemEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishError != nil {
		return m.publishError
	}
	slog.DebugContext(ctx, "mock event published", "action", event.Action, "item_id", event.ItemID)
	m.events = append(m.events, event)
	return nil
}

// Events returns the recorded events
func (m *MockEventPublisher) Events() []model.ItemEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ItemEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SetPublishError makes every Publish fail with err
func (m *MockEventPublisher) SetPublishError(err error) {
	m.publishError = err
}

// IsReady always succeeds
func (m *MockEventPublisher) IsReady(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (m *MockEventPublisher) Close() error {
	return nil
}
