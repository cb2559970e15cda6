// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"
)

// Config represents NATS configuration
type Config struct {
	// URL is the NATS server URL
	URL string `json:"url"`
	// Timeout is the connection and flush timeout
	Timeout time.Duration `json:"timeout"`
	// MaxReconnect is the maximum number of reconnection attempts
	MaxReconnect int `json:"max_reconnect"`
	// ReconnectWait is the time to wait between reconnection attempts
	ReconnectWait time.Duration `json:"reconnect_wait"`
	// SubjectPrefix is prepended to the event action, e.g. <prefix>.created
	SubjectPrefix string `json:"subject_prefix"`
}

// Message is one serialized event ready for publishing
type Message struct {
	// Subject is the NATS subject for the event
	Subject string `json:"subject"`
	// Data is the JSON encoded event
	Data []byte `json:"data"`
}
