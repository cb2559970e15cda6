// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultSubjectPrefix is the NATS subject prefix for item lifecycle events
	DefaultSubjectPrefix = "iudx.catalogue.item"

	// ActionCreated is published after a successful insert
	ActionCreated = "created"
	// ActionUpdated is published after a successful replace or upsert
	ActionUpdated = "updated"
	// ActionDeleted is published after a successful delete
	ActionDeleted = "deleted"
)
