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

// Package source normalizes heterogeneous building-footprint providers into
// the common model.Building representation.  Each provider variant parses its
// own raw record schema and applies its own height-inference precedence
// chain; the rest of the system never sees provider records.
package source

import (
	"context"
	"fmt"

	"github.com/sombra-maps/sombra/model"
)

// DefaultRadius is the search radius used when the caller does not choose one.
const DefaultRadius model.Meters = 300

// PointRadius is the radius of the circular footprint substituted for
// point-geometry records that carry no polygon.
const PointRadius model.Meters = 5

// Kind identifies a building-footprint provider.
type Kind string

// The closed set of provider variants.
const (
	OSM      Kind = "osm"
	Overture Kind = "overture"
	Catastro Kind = "catastro"
	Custom   Kind = "custom"
)

// Kinds returns every provider kind, in presentation order.
func Kinds() []Kind {
	return []Kind{OSM, Overture, Catastro, Custom}
}

// ParseKind converts a source identifier to its Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case OSM, Overture, Catastro, Custom:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("source: unknown kind %q, available: %v", s, Kinds())
	}
}

// Source is one building-footprint provider.
type Source interface {
	// Kind identifies the provider variant.
	Kind() Kind

	// Available reports whether the provider's runtime dependency or service
	// can be used, without performing a full fetch.  It never panics.
	Available() bool

	// Fetch returns the normalized buildings within radius of center.
	// Heights fall back to defaultHeight per the provider's precedence chain.
	// It fails with ErrSourceUnavailable, ErrOutOfCoverage, ErrNoDataFound,
	// or a *QueryError.
	Fetch(ctx context.Context, center model.LatLng, radius, defaultHeight model.Meters) ([]model.Building, error)
}

// New constructs the source for a kind.  The Custom kind is excluded: custom
// buildings come from a document, not a queryable service, and are built with
// NewCustom.
func New(kind Kind, opts ...Option) (Source, error) {
	cfg := defaultOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	var src Source

	switch kind {
	case OSM:
		src = newOSM(cfg)
	case Overture:
		src = newOverture(cfg)
	case Catastro:
		src = newCatastro(cfg)
	case Custom:
		return nil, fmt.Errorf("source: custom buildings are parsed with NewCustom, not fetched")
	default:
		return nil, fmt.Errorf("source: unknown kind %q, available: %v", kind, Kinds())
	}

	if cfg.cacheDir != "" {
		return newCached(src, cfg.cacheDir)
	}

	return src, nil
}

// AvailableKinds returns the queryable provider kinds whose availability
// check passes right now.
func AvailableKinds(opts ...Option) []Kind {
	var available []Kind

	for _, kind := range Kinds() {
		if kind == Custom {
			continue
		}

		src, err := New(kind, opts...)
		if err != nil {
			continue
		}

		if src.Available() {
			available = append(available, kind)
		}
	}

	return available
}
