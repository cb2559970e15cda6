// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/iudx/catalogue-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "bearer only", token: "Bearer "},
		{name: "malformed", token: "not-a-jwt"},
	}

	auth, err := NewJWTAuth(JWTAuthConfig{JWKSURL: "http://127.0.0.1:1/.well-known/jwks"})
	require.NoError(t, err)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := assert.New(t)

			principal, err := auth.ParsePrincipal(context.Background(), tc.token)
			assertion.Empty(principal)

			var unauthorized errors.Unauthorized
			assertion.True(stderrors.As(err, &unauthorized))
		})
	}
}

func TestPrincipalClaimsValidate(t *testing.T) {
	tests := []struct {
		role    string
		wantErr bool
	}{
		{role: ""},
		{role: RoleProvider},
		{role: RoleDelegate},
		{role: RoleAdmin},
		{role: RoleConsumer},
		{role: "superuser", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			err := (&PrincipalClaims{Role: tc.role}).Validate(context.Background())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "jwt invalid: token expired", sanitize(stderrors.New("jwt invalid: token expired: go-jose/go-jose/jwt: validation failed")))
	assert.Equal(t, "could not parse", sanitize(stderrors.New("could not parse")))
}

func TestJWTAuthConfigDefaults(t *testing.T) {
	cfg := JWTAuthConfig{Audience: "custom"}.withDefaults()
	assert.Equal(t, defaultJWKSURL, cfg.JWKSURL)
	assert.Equal(t, defaultIssuer, cfg.Issuer)
	assert.Equal(t, "custom", cfg.Audience)
}
