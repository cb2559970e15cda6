// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds the environment configuration of the catalogue service
type Config struct {
	BackendSource       string        `env:"BACKEND_SOURCE,default=opensearch" description:"opensearch or mock"`
	OpenSearchURL       string        `env:"OPENSEARCH_URL,default=http://localhost:9200"`
	OpenSearchIndex     string        `env:"OPENSEARCH_INDEX,default=catalogue"`
	OpenSearchUsername  string        `env:"OPENSEARCH_USERNAME"`
	OpenSearchPassword  string        `env:"OPENSEARCH_PASSWORD"`
	BackendTimeout      time.Duration `env:"BACKEND_TIMEOUT,default=3s" description:"bound on every backend call"`
	BackendRefresh      string        `env:"BACKEND_REFRESH,default=wait_for" description:"refresh policy sent with writes"`
	BreakerMaxFailures  int           `env:"BREAKER_MAX_FAILURES,default=5"`
	BreakerResetTimeout time.Duration `env:"BREAKER_RESET_TIMEOUT,default=30s"`

	MaxDistanceLimit int  `env:"MAX_DISTANCE_LIMIT,default=10000" description:"ceiling in meters for Point searches"`
	SchemaValidation bool `env:"SCHEMA_VALIDATION,default=true"`

	EventsSource      string        `env:"EVENTS_SOURCE,default=noop" description:"nats or noop"`
	NATSURL           string        `env:"NATS_URL,default=nats://localhost:4222"`
	NATSTimeout       time.Duration `env:"NATS_TIMEOUT,default=10s"`
	NATSMaxReconnect  int           `env:"NATS_MAX_RECONNECT,default=3"`
	NATSReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT,default=2s"`
	NATSSubjectPrefix string        `env:"NATS_SUBJECT_PREFIX,default=iudx.catalogue.item"`

	AuthSource    string `env:"AUTH_SOURCE,default=jwt" description:"jwt or mock"`
	JWKSURL       string `env:"JWKS_URL"`
	Audience      string `env:"AUDIENCE"`
	Issuer        string `env:"JWT_ISSUER"`
	MockPrincipal string `env:"JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"`
}

// LoadConfig reads Config from the environment, applying defaults.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
