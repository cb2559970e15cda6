// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

const (
	// MaxDistanceLimit is the default ceiling, in meters, for the maxDistance of a Point search
	MaxDistanceLimit = 10000
	// DefaultSearchSize is the page size applied to search requests without a limit
	DefaultSearchSize = 10
	// MaxResultWindow is the largest from+size the backend will serve
	MaxResultWindow = 10000
	// MaxOffset is the largest offset accepted before it is clamped
	MaxOffset = MaxResultWindow - 1
	// MaxIDLength bounds the length of a catalogue item id
	MaxIDLength = 512
	// ExistenceCheckSize is the page size of an existence check
	ExistenceCheckSize = 1
)

const (
	// IDField is the document field holding the catalogue id
	IDField = "id"
	// ItemTypeField is the document field holding the item type
	ItemTypeField = "itemType"
	// ResourceGroupField is the document field linking a resource to its group
	ResourceGroupField = "resourceGroup"
	// KeywordSuffix selects the exact-match sub-field of an analyzed field
	KeywordSuffix = ".keyword"
	// GeometrySuffix selects the shape sub-field of a geo property
	GeometrySuffix = ".geometry"
)
