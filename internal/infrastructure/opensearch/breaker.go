// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned without contacting the backend while the breaker is open
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker decides whether a backend call may proceed. done reports the
// outcome of the admitted call.
type Breaker interface {
	Allow() (done func(success bool), err error)
}

// ConsecutiveBreaker opens after maxFailures consecutive failures and lets a
// single trial call through once resetTimeout has elapsed.
type ConsecutiveBreaker struct {
	cb *gobreaker.TwoStepCircuitBreaker[struct{}]
}

// NewConsecutiveBreaker creates a closed breaker. onOpen may be nil.
func NewConsecutiveBreaker(maxFailures int, resetTimeout time.Duration, onOpen func()) *ConsecutiveBreaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	threshold := uint32(maxFailures)

	return &ConsecutiveBreaker{
		cb: gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "opensearch",
			MaxRequests: 1,
			Timeout:     resetTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(_ string, _, to gobreaker.State) {
				if to == gobreaker.StateOpen && onOpen != nil {
					onOpen()
				}
			},
		}),
	}
}

// Allow returns ErrCircuitOpen while open, or while the half-open trial call is in flight.
func (b *ConsecutiveBreaker) Allow() (func(success bool), error) {
	done, err := b.cb.Allow()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return done, nil
}

// nopBreaker never opens
type nopBreaker struct{}

func (nopBreaker) Allow() (func(bool), error) { return func(bool) {}, nil }
