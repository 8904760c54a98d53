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

package model

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinRingVertices is the smallest number of distinct vertices a ring can have.
	MinRingVertices = 3

	// MinCircleSegments is the floor on circle discretization; fewer segments
	// degrade shadow-edge fidelity.
	MinCircleSegments = 12

	// DefaultCircleSegments is the segment count used when discretizing
	// point features and cylinders.
	DefaultCircleSegments = 32
)

// ErrDegenerateFootprint reports a ring with too few distinct vertices or
// with all vertices collinear.
var ErrDegenerateFootprint = errors.New("model: degenerate footprint")

// Ring is an ordered sequence of vertices describing a simple polygon
// boundary.  Closure is implicit; the first vertex is not repeated at the end.
type Ring []LatLng

// Footprint is the ground-plane outline of a building: one exterior ring and
// optional holes.
type Footprint struct {
	Exterior Ring   `json:"exterior"`
	Holes    []Ring `json:"holes,omitempty"`
}

// Validate rejects degenerate footprints.  A valid exterior ring has at least
// three distinct vertices that are not all collinear.
func (f Footprint) Validate() error {
	distinct := f.Exterior.distinct()
	if len(distinct) < MinRingVertices {
		return fmt.Errorf("%w: %d distinct vertices", ErrDegenerateFootprint, len(distinct))
	}

	if distinct.collinear() {
		return fmt.Errorf("%w: all vertices collinear", ErrDegenerateFootprint)
	}

	return nil
}

// Centroid returns the area centroid of the exterior ring, falling back to
// the vertex mean for near-zero areas.
func (f Footprint) Centroid() LatLng {
	return f.Exterior.Centroid()
}

// Bounds returns the bounding box of the exterior ring.  Holes lie inside it
// by construction.
func (f Footprint) Bounds() *BoundingBox {
	bbox := InitialBoundingBox()

	for _, p := range f.Exterior {
		bbox.ExpandWithLatLng(p.Lat, p.Lon)
	}

	return bbox
}

// distinct returns the ring with consecutive duplicate vertices, and a
// trailing duplicate of the first vertex, removed.
func (r Ring) distinct() Ring {
	out := make(Ring, 0, len(r))

	for _, p := range r {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}

		out = append(out, p)
	}

	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}

	return out
}

// collinear reports whether every vertex lies on one line.
func (r Ring) collinear() bool {
	if len(r) < MinRingVertices {
		return true
	}

	a, b := r[0], r[1]

	for _, c := range r[2:] {
		cross := float64(b.Lon-a.Lon)*float64(c.Lat-a.Lat) - float64(b.Lat-a.Lat)*float64(c.Lon-a.Lon)
		if math.Abs(cross) > 1e-16 {
			return false
		}
	}

	return true
}

// Centroid returns the area centroid of the ring via the shoelace formula.
func (r Ring) Centroid() LatLng {
	pts := r.distinct()
	if len(pts) == 0 {
		return LatLng{}
	}

	var area, cx, cy float64

	for i := range pts {
		j := (i + 1) % len(pts)
		x0, y0 := float64(pts[i].Lon), float64(pts[i].Lat)
		x1, y1 := float64(pts[j].Lon), float64(pts[j].Lat)
		w := x0*y1 - x1*y0
		area += w
		cx += (x0 + x1) * w
		cy += (y0 + y1) * w
	}

	if math.Abs(area) < 1e-18 {
		// Zero-area ring; average the vertices instead.
		var lat, lon Degrees
		for _, p := range pts {
			lat += p.Lat
			lon += p.Lon
		}

		n := Degrees(len(pts))

		return LatLng{Lat: lat / n, Lon: lon / n}
	}

	area *= 3 // 6 * area/2

	return LatLng{Lat: Degrees(cy / area), Lon: Degrees(cx / area)}
}

// Circle returns a regular polygon approximating a circle of the given radius
// around center.  Segment counts below MinCircleSegments are raised to it.
func Circle(center LatLng, radius Meters, segments int) Footprint {
	if segments < MinCircleSegments {
		segments = MinCircleSegments
	}

	ring := make(Ring, segments)
	step := fullCircle / Degrees(segments)

	for i := range segments {
		ring[i] = center.Destination(step*Degrees(i), radius)
	}

	return Footprint{Exterior: ring}
}
