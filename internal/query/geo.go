// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iudx/catalogue-service/internal/domain/model"
	"github.com/iudx/catalogue-service/pkg/constants"
	"github.com/iudx/catalogue-service/pkg/errors"
)

const (
	shapeCircle   = "circle"
	shapeEnvelope = "envelope"
)

// backendRelation maps a client georel onto the relations a geo_shape query accepts.
var backendRelation = map[model.GeoRel]string{
	model.GeoRelWithin:     "within",
	model.GeoRelNear:       "intersects",
	model.GeoRelCoveredBy:  "within",
	model.GeoRelIntersects: "intersects",
	model.GeoRelEquals:     "within",
	model.GeoRelDisjoint:   "disjoint",
}

func invalidGeo(format string, args ...any) error {
	return errors.NewValidationReason(ReasonInvalidGeoParameter, fmt.Sprintf(format, args...))
}

func (c *Compiler) geoClause(req model.SearchRequest) (model.Clause, error) {
	if req.GeoRel == "" || len(req.Coordinates) == 0 || strings.TrimSpace(req.GeoProperty) == "" {
		return model.Clause{}, invalidGeo("geometry %q requires georel, coordinates and geoproperty", req.Geometry)
	}
	relation, ok := backendRelation[req.GeoRel]
	if !ok {
		return model.Clause{}, invalidGeo("unsupported georel %q", req.GeoRel)
	}

	var shape model.Shape
	switch req.Geometry {
	case model.GeometryPoint:
		if req.MaxDistance == nil {
			return model.Clause{}, invalidGeo("Point requires maxDistance")
		}
		if *req.MaxDistance <= 0 || *req.MaxDistance > c.maxDistance {
			return model.Clause{}, invalidGeo("maxDistance must be between 1 and %d", c.maxDistance)
		}
		if _, err := decodePosition(req.Coordinates); err != nil {
			return model.Clause{}, invalidGeo("Point coordinates: %v", err)
		}
		shape = model.Shape{
			Type:        shapeCircle,
			Coordinates: req.Coordinates,
			Radius:      fmt.Sprintf("%dm", *req.MaxDistance),
		}
	case model.GeometryPolygon:
		ring, err := outerRing(req.Coordinates)
		if err != nil {
			return model.Clause{}, invalidGeo("Polygon coordinates: %v", err)
		}
		if !closed(ring) {
			return model.Clause{}, errors.NewValidationReason(ReasonInvalidPolygon, "polygon outer ring is not closed")
		}
		shape = model.Shape{Type: string(model.GeometryPolygon), Coordinates: req.Coordinates}
	case model.GeometryLineString:
		var line [][]float64
		if err := json.Unmarshal(req.Coordinates, &line); err != nil || len(line) < 2 {
			return model.Clause{}, invalidGeo("LineString requires at least two positions")
		}
		shape = model.Shape{Type: string(model.GeometryLineString), Coordinates: req.Coordinates}
	case model.GeometryBbox:
		var corners [][]float64
		if err := json.Unmarshal(req.Coordinates, &corners); err != nil || len(corners) != 2 {
			return model.Clause{}, invalidGeo("bbox requires two corner positions")
		}
		shape = model.Shape{Type: shapeEnvelope, Coordinates: req.Coordinates}
	default:
		return model.Clause{}, invalidGeo("unsupported geometry %q", req.Geometry)
	}

	field := strings.TrimSpace(req.GeoProperty) + constants.GeometrySuffix
	return model.Clause{
		GeoShape: map[string]model.GeoShapeQuery{
			field: {Relation: relation, Shape: shape},
		},
	}, nil
}

func decodePosition(raw json.RawMessage) ([]float64, error) {
	var pos []float64
	if err := json.Unmarshal(raw, &pos); err != nil {
		return nil, err
	}
	if len(pos) < 2 {
		return nil, fmt.Errorf("expected [lon, lat]")
	}
	return pos, nil
}

func outerRing(raw json.RawMessage) ([][]float64, error) {
	var rings [][][]float64
	if err := json.Unmarshal(raw, &rings); err != nil {
		return nil, err
	}
	if len(rings) == 0 || len(rings[0]) == 0 {
		return nil, fmt.Errorf("missing outer ring")
	}
	for _, pos := range rings[0] {
		if len(pos) < 2 {
			return nil, fmt.Errorf("expected [lon, lat] positions")
		}
	}
	return rings[0], nil
}

// closed requires both coordinates of the first and last positions to match.
func closed(ring [][]float64) bool {
	first, last := ring[0], ring[len(ring)-1]
	return first[0] == last[0] && first[1] == last[1]
}
