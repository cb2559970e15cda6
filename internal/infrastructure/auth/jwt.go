// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	errs "github.com/iudx/catalogue-service/pkg/errors"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
)

const (
	// PS256 is the algorithm used by the identity gateway fronting the catalogue.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "iudx-catalogue-service"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"

	jwksCacheTTL = 5 * time.Minute
	clockSkew    = 5 * time.Second
)

// Roles a catalogue token may carry.
const (
	RoleProvider = "provider"
	RoleDelegate = "delegate"
	RoleAdmin    = "admin"
	RoleConsumer = "consumer"
)

// JWTAuthConfig holds the configuration parameters for JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL to the JSON Web Key Set endpoint
	JWKSURL string
	// Audience is the intended audience for the JWT token
	Audience string
	// Issuer is the expected iss claim
	Issuer string
}

func (c JWTAuthConfig) withDefaults() JWTAuthConfig {
	if c.JWKSURL == "" {
		c.JWKSURL = defaultJWKSURL
	}
	if c.Audience == "" {
		c.Audience = defaultAudience
	}
	if c.Issuer == "" {
		c.Issuer = defaultIssuer
	}
	return c
}

// PrincipalClaims are the catalogue specific claims of a token.
type PrincipalClaims struct {
	Principal string `json:"principal,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Validate rejects roles the catalogue does not know.
func (c *PrincipalClaims) Validate(ctx context.Context) error {
	switch c.Role {
	case "", RoleProvider, RoleDelegate, RoleAdmin, RoleConsumer:
		return nil
	}
	return fmt.Errorf("unknown role %q", c.Role)
}

// JWTAuth validates tokens presented on mutating catalogue requests
type JWTAuth struct {
	validator *validator.Validator
}

// ParsePrincipal validates token and returns the caller. The principal claim
// wins over sub. Consumers may read the catalogue but never modify it.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string) (string, error) {
	if j.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", errs.NewUnauthorized("token is required")
	}

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		slog.ErrorContext(ctx, "token rejected", "error", err)
		return "", errs.NewUnauthorized(sanitize(err))
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", errs.NewUnauthorized("unexpected claims type")
	}
	custom, _ := claims.CustomClaims.(*PrincipalClaims)
	if custom == nil {
		custom = &PrincipalClaims{}
	}

	if custom.Role == RoleConsumer {
		return "", errs.NewUnauthorized("consumer tokens cannot modify the catalogue")
	}

	principal := custom.Principal
	if principal == "" {
		principal = claims.RegisteredClaims.Subject
	}
	if principal == "" {
		return "", errs.NewUnauthorized("token has no principal")
	}
	return principal, nil
}

// sanitize keeps the first two segments of a validation error so nested
// library detail never reaches the client.
func sanitize(err error) string {
	msg := strings.Replace(err.Error(), ": go-jose/go-jose/jwt", "", 1)
	parts := strings.SplitN(msg, ":", 3)
	if len(parts) < 3 {
		return msg
	}
	return parts[0] + ":" + parts[1]
}

// NewJWTAuth builds a validator backed by a caching JWKS provider.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	config = config.withDefaults()

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
	}
	issuer, err := url.Parse(config.Issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &PrincipalClaims{} }),
		validator.WithAllowedClockSkew(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	slog.Debug("JWT validator ready",
		"issuer", issuer.String(),
		"audience", config.Audience,
	)
	return &JWTAuth{validator: jwtValidator}, nil
}
