// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

type requestIDHeaderType string

// RequestIDHeader is the header name for the request ID
const RequestIDHeader requestIDHeaderType = "X-REQUEST-ID"

type principalContextIDType string

// PrincipalContextID is the context key holding the authenticated principal
const PrincipalContextID principalContextIDType = "principal"

const (
	// TokenHeader carries the credential on mutating requests
	TokenHeader = "token"
	// BasePath is the prefix of every catalogue route
	BasePath = "/iudx/cat/v1"
)
