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

	"github.com/paulmach/orb/encoding/wkb"

	"github.com/sombra-maps/sombra/model"
)

// DefaultOvertureRelease matches any available Overture Maps release.  Pin a
// concrete identifier with WithRelease when reproducibility matters; the
// identifier is resolved once, at construction, never globally.
const DefaultOvertureRelease = "*"

// OvertureRecord is one raw row from the Overture Maps buildings theme.
// Geometry is WKB; Height and NumFloors are optional columns.
type OvertureRecord struct {
	ID        string
	Geometry  []byte
	Height    *float64
	NumFloors *int
	Class     string
}

// ReleaseClient queries one Overture Maps release for raw building records
// within a bounding box.  The object-storage plumbing behind it is not this
// package's concern.
type ReleaseClient interface {
	QueryBuildings(ctx context.Context, release string, bbox model.BoundingBox) ([]OvertureRecord, error)
}

type overtureSource struct {
	client         ReleaseClient
	release        string
	pointRadius    model.Meters
	circleSegments int
}

func newOverture(cfg options) *overtureSource {
	return &overtureSource{
		client:         cfg.releaseClient,
		release:        cfg.release,
		pointRadius:    cfg.pointRadius,
		circleSegments: cfg.circleSegments,
	}
}

func (s *overtureSource) Kind() Kind { return Overture }

// Available reports whether a release client has been configured.
func (s *overtureSource) Available() bool { return s.client != nil }

// Release returns the release identifier the source was pinned to.
func (s *overtureSource) Release() string { return s.release }

func (s *overtureSource) Fetch(ctx context.Context, center model.LatLng, radius, defaultHeight model.Meters) ([]model.Building, error) {
	if !s.Available() {
		return nil, fmt.Errorf("%w: no Overture release client configured", ErrSourceUnavailable)
	}

	records, err := s.client.QueryBuildings(ctx, s.release, model.BoundingBoxAround(center, radius))
	if err != nil {
		return nil, &QueryError{Kind: Overture, Err: err}
	}

	var buildings []model.Building

	var next model.ID

	for _, rec := range records {
		geometry, err := wkb.Unmarshal(rec.Geometry)
		if err != nil {
			slog.Debug("skipping record with bad WKB", "source", Overture, "id", rec.ID, "error", err)

			continue
		}

		height := overtureHeight(rec, defaultHeight)

		for _, fp := range footprintsFromGeometry(geometry, s.pointRadius, s.circleSegments) {
			next++

			b, err := model.NewBuilding(next, fp, height)
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

// overtureHeight applies the Overture precedence chain: the height column
// always outranks num_floors, which always outranks the default.
func overtureHeight(rec OvertureRecord, defaultHeight model.Meters) model.Meters {
	if rec.Height != nil {
		if h, ok := parseMeters(*rec.Height); ok {
			return h
		}
	}

	if rec.NumFloors != nil {
		if h, ok := floorsToHeight(*rec.NumFloors); ok {
			return h
		}
	}

	return defaultHeight
}
