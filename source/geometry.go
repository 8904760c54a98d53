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
	"github.com/paulmach/orb"

	"github.com/sombra-maps/sombra/model"
)

// footprintsFromGeometry normalizes an orb geometry into footprints.  Points
// become circular footprints of pointRadius; polygons keep their holes;
// anything non-areal is dropped.
func footprintsFromGeometry(g orb.Geometry, pointRadius model.Meters, segments int) []model.Footprint {
	switch geo := g.(type) {
	case orb.Point:
		center := model.LatLng{Lat: model.Degrees(geo.Lat()), Lon: model.Degrees(geo.Lon())}

		return []model.Footprint{model.Circle(center, pointRadius, segments)}
	case orb.Polygon:
		if fp, ok := footprintFromPolygon(geo); ok {
			return []model.Footprint{fp}
		}

		return nil
	case orb.MultiPolygon:
		var fps []model.Footprint

		for _, poly := range geo {
			if fp, ok := footprintFromPolygon(poly); ok {
				fps = append(fps, fp)
			}
		}

		return fps
	default:
		return nil
	}
}

func footprintFromPolygon(poly orb.Polygon) (model.Footprint, bool) {
	if len(poly) == 0 {
		return model.Footprint{}, false
	}

	fp := model.Footprint{Exterior: ringFromOrb(poly[0])}

	for _, hole := range poly[1:] {
		fp.Holes = append(fp.Holes, ringFromOrb(hole))
	}

	if err := fp.Validate(); err != nil {
		return model.Footprint{}, false
	}

	return fp, true
}

// ringFromOrb converts an orb ring, which is lon/lat ordered and explicitly
// closed, into a model ring.
func ringFromOrb(r orb.Ring) model.Ring {
	ring := make(model.Ring, 0, len(r))

	for _, pt := range r {
		ring = append(ring, model.LatLng{Lat: model.Degrees(pt.Lat()), Lon: model.Degrees(pt.Lon())})
	}

	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	return ring
}
