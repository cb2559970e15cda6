// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log"
	"log/slog"

	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/internal/infrastructure/auth"
	"github.com/iudx/catalogue-service/internal/infrastructure/mock"
	"github.com/iudx/catalogue-service/internal/infrastructure/nats"
	"github.com/iudx/catalogue-service/internal/infrastructure/opensearch"
	"github.com/iudx/catalogue-service/internal/infrastructure/schema"
	"github.com/iudx/catalogue-service/pkg/metrics"
)

// BackendImpl injects the search backend implementation
func BackendImpl(ctx context.Context, cfg Config) port.Backend {

	var (
		backend port.Backend
		err     error
	)

	switch cfg.BackendSource {
	case "mock":
		slog.InfoContext(ctx, "initializing mock backend")
		backend = mock.NewMockBackend()

	case "opensearch":
		slog.InfoContext(ctx, "initializing opensearch backend",
			"url", cfg.OpenSearchURL,
			"index", cfg.OpenSearchIndex,
			"timeout", cfg.BackendTimeout,
		)
		opensearchConfig := opensearch.Config{
			URL:      cfg.OpenSearchURL,
			Index:    cfg.OpenSearchIndex,
			Username: cfg.OpenSearchUsername,
			Password: cfg.OpenSearchPassword,
			Timeout:  cfg.BackendTimeout,
			Refresh:  cfg.BackendRefresh,
		}

		breaker := opensearch.NewConsecutiveBreaker(cfg.BreakerMaxFailures, cfg.BreakerResetTimeout, func() {
			slog.WarnContext(ctx, "opensearch circuit breaker opened",
				"reset_timeout", cfg.BreakerResetTimeout,
			)
			metrics.BreakerOpened("opensearch")
		})

		backend, err = opensearch.NewBackend(ctx, opensearchConfig, opensearch.WithBreaker(breaker))
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch backend: %v", err)
		}

	default:
		log.Fatalf("unsupported backend implementation: %s", cfg.BackendSource)
	}

	return backend
}

// EventPublisherImpl injects the item event publisher implementation
func EventPublisherImpl(ctx context.Context, cfg Config) port.EventPublisher {

	var (
		publisher port.EventPublisher
		err       error
	)

	switch cfg.EventsSource {
	case "noop":
		slog.InfoContext(ctx, "item events disabled")
		publisher = nats.NoopPublisher{}

	case "mock":
		slog.InfoContext(ctx, "initializing mock event publisher")
		publisher = mock.NewMockEventPublisher()

	case "nats":
		slog.InfoContext(ctx, "initializing NATS event publisher")
		natsConfig := nats.Config{
			URL:           cfg.NATSURL,
			Timeout:       cfg.NATSTimeout,
			MaxReconnect:  cfg.NATSMaxReconnect,
			ReconnectWait: cfg.NATSReconnectWait,
			SubjectPrefix: cfg.NATSSubjectPrefix,
		}

		publisher, err = nats.NewEventPublisher(ctx, natsConfig)
		if err != nil {
			log.Fatalf("failed to initialize NATS event publisher: %v", err)
		}

	default:
		log.Fatalf("unsupported events implementation: %s", cfg.EventsSource)
	}

	return publisher
}

// AuthServiceImpl injects the authenticator used on mutating routes
func AuthServiceImpl(ctx context.Context, cfg Config) port.Authenticator {

	switch cfg.AuthSource {
	case "mock":
		slog.WarnContext(ctx, "JWT validation disabled, using mock principal")
		return mock.NewMockAuthService(cfg.MockPrincipal)

	case "jwt":
		jwtAuth, err := auth.NewJWTAuth(auth.JWTAuthConfig{
			JWKSURL:  cfg.JWKSURL,
			Audience: cfg.Audience,
			Issuer:   cfg.Issuer,
		})
		if err != nil {
			log.Fatalf("failed to initialize JWT authentication: %v", err)
		}
		return jwtAuth
	}

	log.Fatalf("unsupported auth implementation: %s", cfg.AuthSource)
	return nil
}

// ItemValidatorImpl injects the schema validator, or nil when disabled
func ItemValidatorImpl(ctx context.Context, cfg Config) port.ItemValidator {
	if !cfg.SchemaValidation {
		slog.WarnContext(ctx, "item schema validation disabled")
		return nil
	}
	validator, err := schema.NewDefaultValidator()
	if err != nil {
		log.Fatalf("failed to compile item schemas: %v", err)
	}
	return validator
}
