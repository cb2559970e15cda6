// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
)

// Authenticator resolves a request credential to a principal
type Authenticator interface {
	// ParsePrincipal validates the token and returns the principal it names
	ParsePrincipal(ctx context.Context, token string) (string, error)
}

// ItemValidator checks a catalogue document against the schema of its item type
type ItemValidator interface {
	Validate(ctx context.Context, itemType string, document []byte) error
}
