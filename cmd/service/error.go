// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/iudx/catalogue-service/internal/query"
	"github.com/iudx/catalogue-service/pkg/errors"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// envelope is the body of every catalogue response
type envelope struct {
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	Description string `json:"description,omitempty"`
	TotalHits   *int   `json:"totalHits,omitempty"`
	Count       *int   `json:"count,omitempty"`
	Results     any    `json:"results,omitempty"`
}

func wrapError(ctx context.Context, err error) (int, envelope) {

	f := func(err error) (int, envelope) {
		var (
			validation   errors.Validation
			unauthorized errors.Unauthorized
			notFound     errors.NotFound
			conflict     errors.Conflict
			unavailable  errors.ServiceUnavailable
		)
		switch {
		case stderrors.As(err, &validation):
			return http.StatusBadRequest, envelope{
				Status:      statusFailed,
				Error:       reasonOrDefault(validation.Reason()),
				Description: validation.Message(),
			}
		case stderrors.As(err, &unauthorized):
			return http.StatusUnauthorized, envelope{
				Status:      statusFailed,
				Error:       "unauthorized",
				Description: unauthorized.Message(),
			}
		case stderrors.As(err, &notFound):
			return http.StatusNotFound, envelope{
				Status:      statusFailed,
				Error:       "not-found",
				Description: notFound.Message(),
			}
		case stderrors.As(err, &conflict):
			return http.StatusConflict, envelope{
				Status:      statusFailed,
				Error:       "conflict",
				Description: conflict.Message(),
			}
		case stderrors.As(err, &unavailable):
			return http.StatusServiceUnavailable, envelope{
				Status:      statusFailed,
				Error:       "backend-unavailable",
				Description: unavailable.Message(),
			}
		default:
			return http.StatusInternalServerError, envelope{
				Status:      statusFailed,
				Error:       "internal-error",
				Description: "internal error",
			}
		}
	}

	code, body := f(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err)
	} else {
		slog.DebugContext(ctx, "request rejected", "error", err, "status", code)
	}
	return code, body
}

func reasonOrDefault(reason string) string {
	if reason == "" {
		return query.ReasonInvalidParameter
	}
	return reason
}
