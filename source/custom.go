// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sombra-maps/sombra/model"
)

// Custom building shapes.
const (
	ShapePolygon  = "polygon"
	ShapeCylinder = "cylinder"
)

// customRecord is one entry of a user-supplied buildings document.
type customRecord struct {
	Shape   string      `json:"shape"`
	Corners [][]float64 `json:"corners,omitempty"`
	Lat     *float64    `json:"lat,omitempty"`
	Lon     *float64    `json:"lon,omitempty"`
	Radius  *float64    `json:"radius,omitempty"`
	Height  *float64    `json:"height"`
}

type customSource struct {
	buildings []model.Building
}

// NewCustom parses a user-supplied JSON array of building shapes into a
// Source.  Validation happens here, not during merging; any malformed entry
// fails with a *ValidationError naming the offending field.
func NewCustom(r io.Reader) (Source, error) {
	buildings, err := ParseCustom(r)
	if err != nil {
		return nil, err
	}

	return &customSource{buildings: buildings}, nil
}

func (s *customSource) Kind() Kind { return Custom }

func (s *customSource) Available() bool { return true }

// Fetch returns the parsed buildings.  The query coordinate and radius do
// not apply; custom buildings are placed wherever their author put them.
func (s *customSource) Fetch(_ context.Context, _ model.LatLng, _, _ model.Meters) ([]model.Building, error) {
	out := make([]model.Building, len(s.buildings))
	copy(out, s.buildings)

	return out, nil
}

// ParseCustom decodes and validates a custom-buildings document.
func ParseCustom(r io.Reader) ([]model.Building, error) {
	var records []customRecord

	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, &ValidationError{Path: "buildings", Reason: fmt.Sprintf("not a JSON array of shapes: %v", err)}
	}

	buildings := make([]model.Building, 0, len(records))

	for i, rec := range records {
		b, err := rec.building(model.ID(i + 1))
		if err != nil {
			return nil, err
		}

		buildings = append(buildings, b)
	}

	return buildings, nil
}

func (rec customRecord) building(id model.ID) (model.Building, error) {
	path := func(field string) string {
		return fmt.Sprintf("buildings[%d].%s", int(id)-1, field)
	}

	if rec.Height == nil {
		return model.Building{}, &ValidationError{Path: path("height"), Reason: "missing"}
	}

	if *rec.Height <= 0 {
		return model.Building{}, &ValidationError{Path: path("height"), Reason: "must be positive"}
	}

	height := model.Meters(*rec.Height)

	switch rec.Shape {
	case ShapePolygon:
		fp, err := rec.polygonFootprint(path)
		if err != nil {
			return model.Building{}, err
		}

		return model.Building{ID: id, Footprint: fp, Height: height}, nil
	case ShapeCylinder:
		fp, err := rec.cylinderFootprint(path)
		if err != nil {
			return model.Building{}, err
		}

		return model.Building{ID: id, Footprint: fp, Height: height}, nil
	case "":
		return model.Building{}, &ValidationError{Path: path("shape"), Reason: "missing"}
	default:
		return model.Building{}, &ValidationError{
			Path:   path("shape"),
			Reason: fmt.Sprintf("unknown shape %q, expected %q or %q", rec.Shape, ShapePolygon, ShapeCylinder),
		}
	}
}

func (rec customRecord) polygonFootprint(path func(string) string) (model.Footprint, error) {
	if len(rec.Corners) < model.MinRingVertices {
		return model.Footprint{}, &ValidationError{
			Path:   path("corners"),
			Reason: fmt.Sprintf("need at least %d corner pairs, got %d", model.MinRingVertices, len(rec.Corners)),
		}
	}

	ring := make(model.Ring, 0, len(rec.Corners))

	for i, corner := range rec.Corners {
		if len(corner) != 2 {
			return model.Footprint{}, &ValidationError{
				Path:   path(fmt.Sprintf("corners[%d]", i)),
				Reason: "expected a [lat, lon] pair",
			}
		}

		p := model.LatLng{Lat: model.Degrees(corner[0]), Lon: model.Degrees(corner[1])}
		if !p.Valid() {
			return model.Footprint{}, &ValidationError{
				Path:   path(fmt.Sprintf("corners[%d]", i)),
				Reason: fmt.Sprintf("%s is outside WGS84 bounds", p),
			}
		}

		ring = append(ring, p)
	}

	fp := model.Footprint{Exterior: ring}
	if err := fp.Validate(); err != nil {
		return model.Footprint{}, &ValidationError{Path: path("corners"), Reason: err.Error()}
	}

	return fp, nil
}

func (rec customRecord) cylinderFootprint(path func(string) string) (model.Footprint, error) {
	if rec.Lat == nil {
		return model.Footprint{}, &ValidationError{Path: path("lat"), Reason: "missing"}
	}

	if rec.Lon == nil {
		return model.Footprint{}, &ValidationError{Path: path("lon"), Reason: "missing"}
	}

	lat := model.Degrees(*rec.Lat)
	if lat < model.MinLat || lat > model.MaxLat {
		return model.Footprint{}, &ValidationError{
			Path:   path("lat"),
			Reason: fmt.Sprintf("latitude %s is outside WGS84 bounds", ftoa(float64(lat))),
		}
	}

	lon := model.Degrees(*rec.Lon)
	if lon < model.MinLon || lon > model.MaxLon {
		return model.Footprint{}, &ValidationError{
			Path:   path("lon"),
			Reason: fmt.Sprintf("longitude %s is outside WGS84 bounds", ftoa(float64(lon))),
		}
	}

	center := model.LatLng{Lat: lat, Lon: lon}

	if rec.Radius == nil {
		return model.Footprint{}, &ValidationError{Path: path("radius"), Reason: "missing"}
	}

	if *rec.Radius <= 0 {
		return model.Footprint{}, &ValidationError{Path: path("radius"), Reason: "must be positive"}
	}

	return model.Circle(center, model.Meters(*rec.Radius), model.DefaultCircleSegments), nil
}
