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
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/sombra-maps/sombra/model"
)

const (
	// CatastroEndpoint is the INSPIRE WFS service of the Spanish Cadastre.
	CatastroEndpoint = "http://ovc.catastro.meh.es/cartografia/INSPIRE/spadgcwfs.aspx"

	// CatastroLayer is the INSPIRE buildings layer.
	CatastroLayer = "BU.Building"

	availabilityTimeout = 5 * time.Second
)

// spainBounds is the Spanish territory covered by the Catastro, Canary
// Islands included.
var spainBounds = model.BoundingBox{Top: 43.8, Left: -18.2, Bottom: 27.5, Right: 4.4}

// Catastro floors fields, tried in order.  The WFS schema carries floor
// counts, never an explicit height.
var catastroFloorsFields = []string{"numberOfFloorsAboveGround", "numberOfFloors", "floors"}

type catastroSource struct {
	endpoint       string
	layer          string
	http           *http.Client
	pointRadius    model.Meters
	circleSegments int
}

func newCatastro(cfg options) *catastroSource {
	return &catastroSource{
		endpoint:       cfg.endpoint,
		layer:          cfg.layer,
		http:           cfg.httpClient,
		pointRadius:    cfg.pointRadius,
		circleSegments: cfg.circleSegments,
	}
}

func (s *catastroSource) Kind() Kind { return Catastro }

// Available pings the WFS GetCapabilities operation with a short deadline.
func (s *catastroSource) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.endpoint+"?service=WFS&request=GetCapabilities", nil)
	if err != nil {
		return false
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < http.StatusBadRequest
}

func (s *catastroSource) Fetch(ctx context.Context, center model.LatLng, radius, defaultHeight model.Meters) ([]model.Building, error) {
	// Coverage is checked before any query leaves the process.
	if !spainBounds.Contains(center.Lat, center.Lon) {
		return nil, fmt.Errorf("%w: %s is outside Spain", ErrOutOfCoverage, center)
	}

	fc, err := s.getFeature(ctx, model.BoundingBoxAround(center, radius))
	if err != nil {
		return nil, err
	}

	var buildings []model.Building

	var next model.ID

	for _, feature := range fc.Features {
		height := catastroHeight(feature.Properties, defaultHeight)

		for _, fp := range footprintsFromGeometry(feature.Geometry, s.pointRadius, s.circleSegments) {
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

func (s *catastroSource) getFeature(ctx context.Context, bbox model.BoundingBox) (*geojson.FeatureCollection, error) {
	query := url.Values{
		"service":      {"WFS"},
		"version":      {"2.0.0"},
		"request":      {"GetFeature"},
		"typeName":     {s.layer},
		"bbox":         {fmt.Sprintf("%s,%s,%s,%s,EPSG:4326", ftoa(float64(bbox.Left)), ftoa(float64(bbox.Bottom)), ftoa(float64(bbox.Right)), ftoa(float64(bbox.Top)))},
		"outputFormat": {"application/json"},
		"srsName":      {"EPSG:4326"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &QueryError{Kind: Catastro, Err: err}
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &QueryError{Kind: Catastro, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Kind: Catastro, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QueryError{Kind: Catastro, Err: err}
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, &QueryError{Kind: Catastro, Err: fmt.Errorf("decoding GetFeature response: %w", err)}
	}

	return fc, nil
}

// catastroHeight applies the Catastro precedence chain: floors fields in
// schema order, three meters per floor, else the default.
func catastroHeight(props geojson.Properties, defaultHeight model.Meters) model.Meters {
	for _, field := range catastroFloorsFields {
		if h, ok := floorsToHeight(props[field]); ok {
			return h
		}
	}

	return defaultHeight
}
