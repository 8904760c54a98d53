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

// Package sombra projects building footprints into ground-shadow polygons
// for a series of local clock hours.
package sombra

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"

	"github.com/sombra-maps/sombra/model"
	"github.com/sombra-maps/sombra/solar"
)

// DefaultMaxShadowLength clamps the shadow cast when the sun grazes the
// horizon; as altitude approaches zero the ideal length diverges, and the
// projector must never emit non-finite geometry.
const DefaultMaxShadowLength model.Meters = 5000

// zeroLength is the displacement below which edge quadrilaterals collapse
// and the shadow is just the footprint.
const zeroLength = 1e-9

// Projector turns one building and one sun position into a shadow polygon.
//
// The footprint is lifted into a local equirectangular meter frame centered
// on its centroid; at footprint scales, tens to hundreds of meters, the
// approximation error is negligible.  Every vertex is displaced
// height/tan(altitude) meters along the azimuth reciprocal, and the shadow
// is the boolean union of the footprint, its displaced copy, and one
// quadrilateral per edge, which resolves the self-intersections a non-convex
// footprint would otherwise produce.
type Projector struct {
	// MaxShadowLength is the clamp on per-vertex displacement.
	MaxShadowLength model.Meters
}

// NewProjector returns a projector with the default clamp.
func NewProjector() *Projector {
	return &Projector{MaxShadowLength: DefaultMaxShadowLength}
}

// Project computes the building's shadow.  The boolean is false, with a nil
// error, when the sun is at or below the horizon: no shadow is an expected
// outcome, not a failure.  Errors report degenerate footprints only.
func (p *Projector) Project(b model.Building, sun solar.Position) (model.Shadow, bool, error) {
	if sun.Altitude <= 0 {
		return model.Shadow{}, false, nil
	}

	if err := b.Footprint.Validate(); err != nil {
		return model.Shadow{}, false, fmt.Errorf("building %d: %w", b.ID, err)
	}

	origin := b.Footprint.Centroid()
	base := toLocalPolygon(b.Footprint, origin)

	length := p.shadowLength(b.Height, sun.Altitude)
	if length < zeroLength {
		// Sun at the zenith; the shadow is the footprint itself.
		return model.Shadow{BuildingID: b.ID, Parts: []model.Footprint{b.Footprint}}, true, nil
	}

	bearing := sun.Azimuth.Reciprocal()
	dx := float64(length) * math.Sin(bearing.Radians())
	dy := float64(length) * math.Cos(bearing.Radians())

	shadow := base.Union(translatePolygon(base, dx, dy))

	ring := base[0]
	for i := range ring {
		j := (i + 1) % len(ring)
		quad := geom.Polygon{{
			ring[i],
			ring[j],
			geom.Point{X: ring[j].X + dx, Y: ring[j].Y + dy},
			geom.Point{X: ring[i].X + dx, Y: ring[i].Y + dy},
		}}

		shadow = shadow.Union(quad)
	}

	parts := fromLocalPolygon(shadow, origin)
	if len(parts) == 0 {
		return model.Shadow{}, false, fmt.Errorf("building %d: shadow union produced no area", b.ID)
	}

	return model.Shadow{BuildingID: b.ID, Parts: parts}, true, nil
}

// shadowLength is height/tan(altitude), clamped to MaxShadowLength.
func (p *Projector) shadowLength(height model.Meters, altitude model.Degrees) model.Meters {
	maxLength := p.MaxShadowLength
	if maxLength <= 0 {
		maxLength = DefaultMaxShadowLength
	}

	tan := math.Tan(altitude.Radians())
	if tan <= 0 {
		return maxLength
	}

	length := model.Meters(float64(height) / tan)
	if !(length < maxLength) || math.IsInf(float64(length), 0) || math.IsNaN(float64(length)) {
		return maxLength
	}

	return length
}

// toLocalPolygon lifts a footprint into the meter frame centered on origin.
// The exterior ring is first; holes follow.
func toLocalPolygon(fp model.Footprint, origin model.LatLng) geom.Polygon {
	poly := make(geom.Polygon, 0, 1+len(fp.Holes))
	poly = append(poly, toLocalRing(fp.Exterior, origin))

	for _, hole := range fp.Holes {
		poly = append(poly, toLocalRing(hole, origin))
	}

	return poly
}

func toLocalRing(r model.Ring, origin model.LatLng) []geom.Point {
	pts := make([]geom.Point, 0, len(r))

	for _, p := range r {
		x, y := p.LocalXY(origin)
		pts = append(pts, geom.Point{X: x, Y: y})
	}

	return pts
}

func translatePolygon(poly geom.Polygon, dx, dy float64) geom.Polygon {
	out := make(geom.Polygon, 0, len(poly))

	for _, ring := range poly {
		moved := make([]geom.Point, 0, len(ring))
		for _, pt := range ring {
			moved = append(moved, geom.Point{X: pt.X + dx, Y: pt.Y + dy})
		}

		out = append(out, moved)
	}

	return out
}

// fromLocalPolygon converts a union result back to WGS84 footprints.  Rings
// are classified by winding: one sign encloses area, the other punches
// holes, which are attached to the part that contains them.
func fromLocalPolygon(poly geom.Polygonal, origin model.LatLng) []model.Footprint {
	var outers [][]geom.Point

	var holes [][]geom.Point

	for _, p := range poly.Polygons() {
		for _, ring := range p {
			if len(ring) < model.MinRingVertices {
				continue
			}

			if signedArea(ring) >= 0 {
				outers = append(outers, ring)
			} else {
				holes = append(holes, ring)
			}
		}
	}

	parts := make([]model.Footprint, 0, len(outers))
	for _, outer := range outers {
		parts = append(parts, model.Footprint{Exterior: fromLocalRing(outer, origin)})
	}

	for _, hole := range holes {
		for i, outer := range outers {
			if pointInRing(hole[0], outer) {
				parts[i].Holes = append(parts[i].Holes, fromLocalRing(hole, origin))

				break
			}
		}
	}

	return parts
}

func fromLocalRing(ring []geom.Point, origin model.LatLng) model.Ring {
	out := make(model.Ring, 0, len(ring))

	for _, pt := range ring {
		out = append(out, model.FromLocalXY(origin, pt.X, pt.Y))
	}

	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}

	return out
}

func signedArea(ring []geom.Point) float64 {
	var area float64

	for i := range ring {
		j := (i + 1) % len(ring)
		area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}

	return area / 2
}

// pointInRing is a ray-casting point-in-polygon test.
func pointInRing(pt geom.Point, ring []geom.Point) bool {
	inside := false

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		a, b := ring[i], ring[j]

		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}

	return inside
}
