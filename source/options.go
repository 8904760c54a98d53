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
	"net/http"
	"time"

	"github.com/sombra-maps/sombra/model"
)

// options provides optional configuration parameters for source construction.
type options struct {
	httpClient     *http.Client   // transport for providers that speak HTTP directly
	querier        Querier        // Overpass query client for the OSM variant
	releaseClient  ReleaseClient  // Overture release query client
	release        string         // Overture release identifier, pinned at construction
	endpoint       string         // Catastro WFS endpoint
	layer          string         // Catastro WFS layer
	pointRadius    model.Meters   // radius for point-to-footprint conversion
	circleSegments int            // discretization of point and cylinder footprints
	cacheDir       string         // when set, wrap the source in an on-disk fetch cache
}

// Option configures how we set up a source.
type Option func(*options)

// WithHTTPClient lets you replace the HTTP transport used by providers that
// issue requests directly.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithQuerier lets you replace the Overpass query client used by the OSM
// variant.
func WithQuerier(q Querier) Option {
	return func(o *options) { o.querier = q }
}

// WithReleaseClient lets you set the Overture release query client.  Without
// one the Overture variant reports itself unavailable.
func WithReleaseClient(c ReleaseClient) Option {
	return func(o *options) { o.releaseClient = c }
}

// WithRelease pins the Overture release identifier.  Resolution of "latest"
// is the caller's job and happens before construction.
func WithRelease(release string) Option {
	return func(o *options) { o.release = release }
}

// WithEndpoint lets you replace the Catastro WFS endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// WithPointRadius lets you set the footprint radius substituted for
// point-geometry records.
func WithPointRadius(r model.Meters) Option {
	return func(o *options) { o.pointRadius = r }
}

// WithCircleSegments lets you set the vertex count used to discretize
// circular footprints.
func WithCircleSegments(n int) Option {
	return func(o *options) { o.circleSegments = n }
}

// WithCacheDir wraps the source in an on-disk cache of fetch results.
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// defaultOptions provides a default configuration for sources.
var defaultOptions = options{
	httpClient:     &http.Client{Timeout: 30 * time.Second},
	release:        DefaultOvertureRelease,
	endpoint:       CatastroEndpoint,
	layer:          CatastroLayer,
	pointRadius:    PointRadius,
	circleSegments: model.DefaultCircleSegments,
}
