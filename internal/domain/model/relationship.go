// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "fmt"

// RelationshipKind names a hierarchy edge that can be followed from an item id
type RelationshipKind string

const (
	RelationshipResource       RelationshipKind = "resource"
	RelationshipResourceGroup  RelationshipKind = "resourceGroup"
	RelationshipProvider       RelationshipKind = "provider"
	RelationshipResourceServer RelationshipKind = "resourceServer"
	RelationshipType           RelationshipKind = "type"
)

// ParseRelationship maps the rel parameter to a kind.
func ParseRelationship(raw string) (RelationshipKind, error) {
	switch k := RelationshipKind(raw); k {
	case RelationshipResource, RelationshipResourceGroup, RelationshipProvider, RelationshipResourceServer, RelationshipType:
		return k, nil
	}
	return "", fmt.Errorf("unknown relationship %q", raw)
}
