// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/pkg/constants"
)

// EventPublisher publishes item lifecycle events on <prefix>.<action>
type EventPublisher struct {
	client NATSClientInterface
	prefix string
}

// Publish implements port.EventPublisher
func (p *EventPublisher) Publish(ctx context.Context, event model.ItemEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode item event: %w", err)
	}
	return p.client.Publish(ctx, &Message{
		Subject: p.prefix + "." + event.Action,
		Data:    data,
	})
}

// IsReady implements port.EventPublisher
func (p *EventPublisher) IsReady(ctx context.Context) error {
	if !p.client.IsConnected() {
		return errors.New("NATS client is not connected")
	}
	return nil
}

// Close implements port.EventPublisher
func (p *EventPublisher) Close() error {
	return p.client.Close()
}

func newEventPublisher(client NATSClientInterface, prefix string) *EventPublisher {
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}
	return &EventPublisher{client: client, prefix: prefix}
}

// NewEventPublisher connects to NATS and returns a publisher
func NewEventPublisher(ctx context.Context, config Config) (port.EventPublisher, error) {
	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, err
	}
	return newEventPublisher(client, config.SubjectPrefix), nil
}

// NoopPublisher drops every event, used when no broker is configured
type NoopPublisher struct{}

// Publish implements port.EventPublisher
func (NoopPublisher) Publish(ctx context.Context, event model.ItemEvent) error { return nil }

// IsReady implements port.EventPublisher
func (NoopPublisher) IsReady(ctx context.Context) error { return nil }

// Close implements port.EventPublisher
func (NoopPublisher) Close() error { return nil }
