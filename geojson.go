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

package sombra

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/sombra-maps/sombra/model"
)

// BuildingCollection renders a building set as a GeoJSON feature collection,
// one polygon feature per building with id and height properties.
func BuildingCollection(set model.BuildingSet) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, b := range set.Buildings {
		feature := geojson.NewFeature(polygonFromFootprint(b.Footprint))
		feature.Properties["id"] = uint64(b.ID)
		feature.Properties["height"] = float64(b.Height)

		fc.Append(feature)
	}

	if len(set.Buildings) > 0 {
		fc.BBox = bboxMember(set.Bounds())
	}

	return fc
}

// ShadowCollection renders hourly shadows as a GeoJSON feature collection,
// one multi-polygon feature per building per hour, ordered by hour then
// building id so output is stable across runs.
func ShadowCollection(hourly model.HourlyShadows) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	hours := make([]int, 0, len(hourly))
	for hour := range hourly {
		hours = append(hours, hour)
	}

	sort.Ints(hours)

	bounds := model.InitialBoundingBox()

	for _, hour := range hours {
		for _, shadow := range hourly[hour] {
			mp := make(orb.MultiPolygon, 0, len(shadow.Parts))
			for _, part := range shadow.Parts {
				mp = append(mp, polygonFromFootprint(part))
				bounds.ExpandWithBoundingBox(part.Bounds())
			}

			feature := geojson.NewFeature(mp)
			feature.Properties["building_id"] = uint64(shadow.BuildingID)
			feature.Properties["hour"] = hour

			fc.Append(feature)
		}
	}

	if len(fc.Features) > 0 {
		fc.BBox = bboxMember(bounds)
	}

	return fc
}

// bboxMember converts to the GeoJSON bbox order, west south east north.
func bboxMember(b *model.BoundingBox) geojson.BBox {
	return geojson.BBox{float64(b.Left), float64(b.Bottom), float64(b.Right), float64(b.Top)}
}

// polygonFromFootprint converts to GeoJSON ring form: lon/lat order, first
// point repeated last.
func polygonFromFootprint(fp model.Footprint) orb.Polygon {
	poly := make(orb.Polygon, 0, 1+len(fp.Holes))
	poly = append(poly, ringFromModel(fp.Exterior))

	for _, hole := range fp.Holes {
		poly = append(poly, ringFromModel(hole))
	}

	return poly
}

func ringFromModel(r model.Ring) orb.Ring {
	ring := make(orb.Ring, 0, len(r)+1)

	for _, p := range r {
		ring = append(ring, orb.Point{float64(p.Lon), float64(p.Lat)})
	}

	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}

	return ring
}
