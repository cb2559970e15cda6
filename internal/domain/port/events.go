// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/iudx/catalogue-service/internal/domain/model"
)

// EventPublisher announces applied item mutations to other services
type EventPublisher interface {
	Publish(ctx context.Context, event model.ItemEvent) error
	IsReady(ctx context.Context) error
	Close() error
}
