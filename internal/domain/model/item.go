// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ItemType is the discriminator carried in the itemType field of every catalogue document
type ItemType string

const (
	ItemTypeResource       ItemType = "iudx:Resource"
	ItemTypeResourceGroup  ItemType = "iudx:ResourceGroup"
	ItemTypeResourceServer ItemType = "iudx:ResourceServer"
	ItemTypeProvider       ItemType = "iudx:Provider"
	ItemTypeInstance       ItemType = "iudx:Instance"
)

// Valid reports whether the item type is one the catalogue stores.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeResource, ItemTypeResourceGroup, ItemTypeResourceServer, ItemTypeProvider, ItemTypeInstance:
		return true
	}
	return false
}

// CatalogItem is a single catalogue document. Only id and itemType are
// interpreted; Raw is stored and returned exactly as received.
type CatalogItem struct {
	ID       string
	ItemType ItemType
	Raw      json.RawMessage
}

// MarshalJSON writes the original document.
func (c CatalogItem) MarshalJSON() ([]byte, error) {
	if len(c.Raw) == 0 {
		return []byte("null"), nil
	}
	return c.Raw, nil
}

type itemHeader struct {
	ID       string   `json:"id"`
	ItemType ItemType `json:"itemType"`
}

// NewCatalogItem extracts the core fields from raw without altering it.
func NewCatalogItem(raw []byte) (CatalogItem, error) {
	var header itemHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return CatalogItem{}, fmt.Errorf("item is not a JSON object: %w", err)
	}
	return CatalogItem{
		ID:       header.ID,
		ItemType: header.ItemType,
		Raw:      json.RawMessage(raw),
	}, nil
}

// Segments splits the hierarchical id on forward slashes.
func Segments(id string) []string {
	return strings.Split(id, "/")
}
