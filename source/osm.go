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
	"fmt"
	"log/slog"
	"strconv"

	overpass "github.com/MeKo-Christian/go-overpass"

	"github.com/sombra-maps/sombra/model"
)

// OSM building tags, queried in order.  Results of both queries are
// concatenated and deduplicated by element id; building:part features refine
// the plain building outlines the way the original OSM data models them.
var osmBuildingTags = []string{"building", "building:part"}

// Querier is the Overpass query client consumed by the OSM source.  The
// production implementation is the go-overpass client; tests substitute a
// canned one.
type Querier interface {
	Query(query string) (overpass.Result, error)
}

type osmSource struct {
	querier        Querier
	pointRadius    model.Meters
	circleSegments int
}

func newOSM(cfg options) *osmSource {
	querier := cfg.querier
	if querier == nil {
		client := overpass.New()
		querier = &client
	}

	return &osmSource{
		querier:        querier,
		pointRadius:    cfg.pointRadius,
		circleSegments: cfg.circleSegments,
	}
}

func (s *osmSource) Kind() Kind { return OSM }

// Available is constitutively true: the public Overpass API needs no local
// dependency, and reachability is only knowable by querying.
func (s *osmSource) Available() bool { return true }

func (s *osmSource) Fetch(ctx context.Context, center model.LatLng, radius, defaultHeight model.Meters) ([]model.Building, error) {
	seenWays := make(map[int64]bool)
	seenNodes := make(map[int64]bool)

	var buildings []model.Building

	var next model.ID

	for _, tag := range osmBuildingTags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.querier.Query(overpassQuery(tag, center, radius))
		if err != nil {
			return nil, &QueryError{Kind: OSM, Err: err}
		}

		for id, way := range result.Ways {
			if seenWays[id] || way == nil || way.Tags[tag] == "" {
				continue
			}

			seenWays[id] = true

			fp, ok := wayFootprint(way)
			if !ok {
				slog.Debug("skipping degenerate way", "source", OSM, "id", id)

				continue
			}

			next++

			b, err := model.NewBuilding(next, fp, osmHeight(way.Tags, defaultHeight))
			if err != nil {
				next--

				continue
			}

			buildings = append(buildings, b)
		}

		// Tagged nodes are points of interest without an outline; substitute
		// a small circular footprint.
		for id, node := range result.Nodes {
			if seenNodes[id] || node == nil || node.Tags[tag] == "" {
				continue
			}

			seenNodes[id] = true

			center := model.LatLng{Lat: model.Degrees(node.Lat), Lon: model.Degrees(node.Lon)}
			fp := model.Circle(center, s.pointRadius, s.circleSegments)

			next++

			b, err := model.NewBuilding(next, fp, osmHeight(node.Tags, defaultHeight))
			if err != nil {
				next--

				continue
			}

			buildings = append(buildings, b)
		}
	}

	if len(buildings) == 0 {
		return nil, fmt.Errorf("%w: within %sm of %s", ErrNoDataFound, ftoa(float64(radius)), center)
	}

	return buildings, nil
}

// osmHeight applies the OSM precedence chain: the explicit height tag always
// outranks building:levels, which always outranks the default.
func osmHeight(tags map[string]string, defaultHeight model.Meters) model.Meters {
	if h, ok := parseMeters(tags["height"]); ok {
		return h
	}

	if h, ok := floorsToHeight(tags["building:levels"]); ok {
		return h
	}

	return defaultHeight
}

func wayFootprint(way *overpass.Way) (model.Footprint, bool) {
	ring := make(model.Ring, 0, len(way.Nodes))

	for _, node := range way.Nodes {
		if node == nil {
			continue
		}

		ring = append(ring, model.LatLng{Lat: model.Degrees(node.Lat), Lon: model.Degrees(node.Lon)})
	}

	fp := model.Footprint{Exterior: ring}
	if err := fp.Validate(); err != nil {
		return model.Footprint{}, false
	}

	return fp, true
}

func overpassQuery(tag string, center model.LatLng, radius model.Meters) string {
	around := fmt.Sprintf("around:%s,%s,%s",
		ftoa(float64(radius)), ftoa(float64(center.Lat)), ftoa(float64(center.Lon)))

	return fmt.Sprintf(`[out:json];(way[%q](%s);node[%q](%s););(._;>;);out body;`,
		tag, around, tag, around)
}

// ftoa formats a float with the fewest digits needed to round-trip.
func ftoa(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
