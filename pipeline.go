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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/destel/rill"

	"github.com/sombra-maps/sombra/model"
	"github.com/sombra-maps/sombra/solar"
)

// ErrInvalidRange reports a malformed hour range.
var ErrInvalidRange = errors.New("sombra: invalid hour range")

const lastHour = 23

// Pipeline computes per-hour shadow sets for a merged building set.  It is
// pure with respect to its inputs: the date is an explicit value, so
// identical inputs always yield identical results.
type Pipeline struct {
	projector *Projector
	nCPU      uint16
}

// NewPipeline returns a pipeline, configured with options.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	cfg := defaultPipelineConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	projector := cfg.projector
	if projector == nil {
		projector = &Projector{MaxShadowLength: cfg.maxShadowLength}
	}

	// Zero workers would drop every hour on the floor.
	return &Pipeline{projector: projector, nCPU: max(cfg.nCPU, 1)}
}

type hourShadows struct {
	hour    int
	shadows []model.Shadow
	sunUp   bool
}

// Run projects every building for each hour from startHour through endHour
// inclusive, on the civil date carried by day interpreted in loc.  The sun
// position is computed once per hour at the set's reference point; it varies
// negligibly across a query radius.  Hours with the sun at or below the
// horizon are absent from the result, which makes an empty result a valid
// outcome, not an error.  Buildings whose projection fails are logged and
// omitted.
func (p *Pipeline) Run(ctx context.Context, set model.BuildingSet, day time.Time, startHour, endHour int, loc *time.Location) (model.HourlyShadows, error) {
	if startHour > endHour || startHour < 0 || endHour > lastHour {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidRange, startHour, endHour)
	}

	if loc == nil {
		loc = time.UTC
	}

	year, month, dayOfMonth := day.Date()

	hours := make([]int, 0, endHour-startHour+1)
	for hour := startHour; hour <= endHour; hour++ {
		hours = append(hours, hour)
	}

	computed := rill.Map(rill.FromSlice(hours, nil), int(p.nCPU), func(hour int) (hourShadows, error) {
		if err := ctx.Err(); err != nil {
			return hourShadows{}, err
		}

		return p.projectHour(set, year, month, dayOfMonth, hour, loc), nil
	})

	result := make(model.HourlyShadows)

	err := rill.ForEach(computed, 1, func(hs hourShadows) error {
		if hs.sunUp {
			result[hs.hour] = hs.shadows
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) projectHour(set model.BuildingSet, year int, month time.Month, day, hour int, loc *time.Location) hourShadows {
	pos, up := solar.ForCivil(year, month, day, hour, loc, set.Ref.Lat, set.Ref.Lon)
	if !up {
		slog.Debug("sun below horizon", "hour", hour)

		return hourShadows{hour: hour}
	}

	shadows := make([]model.Shadow, 0, len(set.Buildings))

	for _, b := range set.Buildings {
		shadow, ok, err := p.projector.Project(b, pos)
		if err != nil {
			slog.Warn("skipping building", "hour", hour, "building", b.ID, "error", err)

			continue
		}

		if ok {
			shadows = append(shadows, shadow)
		}
	}

	return hourShadows{hour: hour, shadows: shadows, sunUp: true}
}
