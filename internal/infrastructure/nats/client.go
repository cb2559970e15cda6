// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// NATSClient wraps the NATS connection used to publish item events
type NATSClient struct {
	conn   *nats.Conn
	config Config
}

// NATSClientInterface defines the interface for NATS operations
// This allows for easy mocking and testing
type NATSClientInterface interface {
	Publish(ctx context.Context, msg *Message) error
	IsConnected() bool
	Close() error
}

// Publish sends msg and flushes so that delivery failures surface here
func (c *NATSClient) Publish(ctx context.Context, msg *Message) error {

	if msg == nil || msg.Subject == "" || len(msg.Data) == 0 {
		slog.ErrorContext(ctx, "invalid NATS message: subject and data must be set")
		return fmt.Errorf("invalid NATS message: subject and data must be set")
	}

	if err := c.conn.Publish(msg.Subject, msg.Data); err != nil {
		slog.ErrorContext(ctx, "NATS publish failed", "subject", msg.Subject, "error", err)
		return fmt.Errorf("NATS publish failed: %w", err)
	}

	if err := c.conn.FlushTimeout(c.config.Timeout); err != nil {
		slog.ErrorContext(ctx, "NATS flush failed", "subject", msg.Subject, "error", err)
		return fmt.Errorf("NATS flush failed: %w", err)
	}

	slog.DebugContext(ctx, "published NATS message",
		"subject", msg.Subject,
		"size", len(msg.Data),
	)
	return nil
}

// IsConnected reports the connection state
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (c *NATSClient) Close() error {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
			return err
		}
	}
	return nil
}

// NewClient creates a new NATS client with the given configuration
func NewClient(ctx context.Context, config Config) (*NATSClient, error) {
	slog.InfoContext(ctx, "creating NATS client",
		"url", config.URL,
		"timeout", config.Timeout,
	)

	// Configure NATS connection options
	opts := []nats.Option{
		nats.Name("iudx-catalogue-service"),
		nats.Timeout(config.Timeout),
		nats.MaxReconnects(config.MaxReconnect),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
		}),
	}

	// Establish connection
	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to NATS", "error", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	client := &NATSClient{
		conn:   conn,
		config: config,
	}

	slog.InfoContext(ctx, "NATS client created successfully",
		"connected_url", conn.ConnectedUrl(),
		"status", conn.Status(),
	)

	return client, nil
}
