// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNATSClient is a mock implementation of NATSClientInterface
type MockNATSClient struct {
	published    []*Message
	publishError error
	connected    bool
	closeError   error
}

func NewMockNATSClient() *MockNATSClient {
	return &MockNATSClient{connected: true}
}

func (m *MockNATSClient) Publish(ctx context.Context, msg *Message) error {
	if m.publishError != nil {
		return m.publishError
	}
	m.published = append(m.published, msg)
	return nil
}

func (m *MockNATSClient) IsConnected() bool {
	return m.connected
}

func (m *MockNATSClient) Close() error {
	return m.closeError
}

func (m *MockNATSClient) SetPublishError(err error) {
	m.publishError = err
}

func TestEventPublisherPublish(t *testing.T) {
	tests := []struct {
		name            string
		prefix          string
		event           model.ItemEvent
		setupMock       func(*MockNATSClient)
		expectedError   bool
		expectedSubject string
	}{
		{
			name:            "default prefix",
			event:           model.ItemEvent{ID: "e1", ItemID: "a/b", Action: constants.ActionCreated},
			setupMock:       func(m *MockNATSClient) {},
			expectedSubject: "iudx.catalogue.item.created",
		},
		{
			name:            "custom prefix",
			prefix:          "dev.cat",
			event:           model.ItemEvent{ID: "e2", ItemID: "a/b", Action: constants.ActionDeleted},
			setupMock:       func(m *MockNATSClient) {},
			expectedSubject: "dev.cat.deleted",
		},
		{
			name:  "publish failure",
			event: model.ItemEvent{ID: "e3", ItemID: "a/b", Action: constants.ActionUpdated},
			setupMock: func(m *MockNATSClient) {
				m.SetPublishError(errors.New("connection closed"))
			},
			expectedError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			client := NewMockNATSClient()
			tc.setupMock(client)
			publisher := newEventPublisher(client, tc.prefix)

			err := publisher.Publish(context.Background(), tc.event)
			if tc.expectedError {
				assertion.Error(err)
				return
			}
			require.NoError(t, err)
			require.Len(t, client.published, 1)
			assertion.Equal(tc.expectedSubject, client.published[0].Subject)

			var decoded model.ItemEvent
			require.NoError(t, json.Unmarshal(client.published[0].Data, &decoded))
			assertion.Equal(tc.event.ItemID, decoded.ItemID)
			assertion.Equal(tc.event.Action, decoded.Action)
		})
	}
}

func TestEventPublisherIsReady(t *testing.T) {
	client := NewMockNATSClient()
	publisher := newEventPublisher(client, "")
	assert.NoError(t, publisher.IsReady(context.Background()))

	client.connected = false
	assert.Error(t, publisher.IsReady(context.Background()))
}
