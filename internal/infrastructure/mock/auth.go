// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"
	"os"

	"github.com/iudx/catalogue-service/internal/domain/port"
	"github.com/iudx/catalogue-service/pkg/errors"
)

// MockAuthService provides a mock implementation of the authentication service
type MockAuthService struct {
	principal string
}

// ParsePrincipal returns the configured principal for any non-empty token
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string) (string, error) {

	if token == "" {
		return "", errors.NewUnauthorized("token is required")
	}

	principal := m.principal
	if principal == "" {
		principal = os.Getenv("JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	if principal == "" {
		return "", errors.NewUnauthorized("mock principal not configured in JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	slog.DebugContext(ctx, "parsed principal",
		"user_id", principal,
	)

	return principal, nil
}

// NewMockAuthService creates a new mock authentication service. An empty
// principal falls back to JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL.
func NewMockAuthService(principal string) port.Authenticator {
	return &MockAuthService{principal: principal}
}
