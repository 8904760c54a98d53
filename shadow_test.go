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

package sombra_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sombra-maps/sombra"
	"github.com/sombra-maps/sombra/model"
	"github.com/sombra-maps/sombra/solar"
)

// squareAround builds a square footprint of the given side length, centered
// on center.
func squareAround(center model.LatLng, side model.Meters) model.Footprint {
	h := float64(side) / 2

	return model.Footprint{Exterior: model.Ring{
		center.Offset(-h, -h),
		center.Offset(h, -h),
		center.Offset(h, h),
		center.Offset(-h, h),
	}}
}

// northExtent is the largest northward displacement, in meters, of any shadow
// vertex relative to origin.
func northExtent(shadow model.Shadow, origin model.LatLng) float64 {
	extent := -1e18

	for _, part := range shadow.Parts {
		for _, p := range part.Exterior {
			_, y := p.LocalXY(origin)
			if y > extent {
				extent = y
			}
		}
	}

	return extent
}

var madrid = model.LatLng{Lat: 40.4168, Lon: -3.7038}

func TestProjectBelowHorizon(t *testing.T) {
	b, err := model.NewBuilding(1, squareAround(madrid, 20), 20)
	assert.NoError(t, err)

	projector := sombra.NewProjector()

	_, ok, err := projector.Project(b, solar.Position{Altitude: 0, Azimuth: 90})
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = projector.Project(b, solar.Position{Altitude: -10, Azimuth: 90})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestProjectZenith(t *testing.T) {
	fp := squareAround(madrid, 20)
	b, err := model.NewBuilding(1, fp, 20)
	assert.NoError(t, err)

	shadow, ok, err := projectorProject(t, b, solar.Position{Altitude: 90, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)

	// Straight down, the shadow is the footprint itself.
	assert.Len(t, shadow.Parts, 1)
	assert.Equal(t, fp.Exterior, shadow.Parts[0].Exterior)
}

func projectorProject(t *testing.T, b model.Building, sun solar.Position) (model.Shadow, bool, error) {
	t.Helper()

	return sombra.NewProjector().Project(b, sun)
}

func TestProjectExtendsOppositeTheSun(t *testing.T) {
	b, err := model.NewBuilding(1, squareAround(madrid, 20), 20)
	assert.NoError(t, err)

	// Sun due south at 45 degrees; a 20 m building casts 20 m north.
	shadow, ok, err := projectorProject(t, b, solar.Position{Altitude: 45, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.ID(1), shadow.BuildingID)

	// Square half-side plus displacement.
	assert.InDelta(t, 30, northExtent(shadow, madrid), 0.5)
}

func TestProjectLowerSunCastsLonger(t *testing.T) {
	b, err := model.NewBuilding(1, squareAround(madrid, 20), 20)
	assert.NoError(t, err)

	high, ok, err := projectorProject(t, b, solar.Position{Altitude: 60, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)

	low, ok, err := projectorProject(t, b, solar.Position{Altitude: 30, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)

	assert.Greater(t, northExtent(low, madrid), northExtent(high, madrid))
}

func TestProjectClampsGrazingSun(t *testing.T) {
	b, err := model.NewBuilding(1, squareAround(madrid, 20), 100)
	assert.NoError(t, err)

	projector := &sombra.Projector{MaxShadowLength: 50}

	shadow, ok, err := projector.Project(b, solar.Position{Altitude: 0.01, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)

	// Half-side plus the clamp, never height/tan(0.01 degrees).
	assert.InDelta(t, 60, northExtent(shadow, madrid), 0.5)
}

func TestProjectDegenerateFootprint(t *testing.T) {
	collinear := model.Footprint{Exterior: model.Ring{
		{Lat: 40, Lon: -3},
		{Lat: 40.001, Lon: -3},
		{Lat: 40.002, Lon: -3},
	}}
	b := model.Building{ID: 9, Footprint: collinear, Height: 15}

	_, ok, err := projectorProject(t, b, solar.Position{Altitude: 45, Azimuth: 180})
	assert.ErrorIs(t, err, model.ErrDegenerateFootprint)
	assert.False(t, ok)
}

func TestProjectPreservesCourtyard(t *testing.T) {
	// A 40 m block around a 30 m courtyard.  With a small displacement the
	// union keeps a hole where neither copy covers the courtyard.
	outer := squareAround(madrid, 40)
	courtyard := squareAround(madrid, 30)
	fp := model.Footprint{Exterior: outer.Exterior, Holes: []model.Ring{courtyard.Exterior}}

	b, err := model.NewBuilding(1, fp, 20)
	assert.NoError(t, err)

	// Altitude 80 degrees displaces about 3.5 m, less than the ring width.
	shadow, ok, err := projectorProject(t, b, solar.Position{Altitude: 80, Azimuth: 180})
	assert.NoError(t, err)
	assert.True(t, ok)

	holes := 0
	for _, part := range shadow.Parts {
		assert.NoError(t, part.Validate())

		holes += len(part.Holes)
	}

	assert.Greater(t, holes, 0)
}

func TestProjectNonConvexFootprint(t *testing.T) {
	// An L-shaped footprint; the union must still produce simple polygons.
	ext := model.Ring{
		madrid.Offset(0, 0),
		madrid.Offset(30, 0),
		madrid.Offset(30, 10),
		madrid.Offset(10, 10),
		madrid.Offset(10, 30),
		madrid.Offset(0, 30),
	}
	b, err := model.NewBuilding(1, model.Footprint{Exterior: ext}, 20)
	assert.NoError(t, err)

	shadow, ok, err := projectorProject(t, b, solar.Position{Altitude: 45, Azimuth: 225})
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, shadow.Parts)

	for _, part := range shadow.Parts {
		assert.NoError(t, part.Validate())
	}
}
