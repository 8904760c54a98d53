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

package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sombra-maps/sombra/model"
)

func TestFootprint_Validate(t *testing.T) {
	test_cases := []struct {
		name     string
		exterior model.Ring
		valid    bool
	}{
		{
			"triangle",
			model.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.001}, {Lat: 0.001, Lon: 0}},
			true,
		},
		{
			"square with explicit closure",
			model.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.001}, {Lat: 0.001, Lon: 0.001}, {Lat: 0.001, Lon: 0}, {Lat: 0, Lon: 0}},
			true,
		},
		{
			"empty",
			model.Ring{},
			false,
		},
		{
			"two vertices",
			model.Ring{{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0.001}},
			false,
		},
		{
			"duplicates collapse below minimum",
			model.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0.001}, {Lat: 0.001, Lon: 0.001}},
			false,
		},
		{
			"collinear",
			model.Ring{{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0.001}, {Lat: 0.002, Lon: 0.002}},
			false,
		},
	}

	for _, tc := range test_cases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.Footprint{Exterior: tc.exterior}.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrDegenerateFootprint)
			}
		})
	}
}

func TestRing_Centroid(t *testing.T) {
	square := model.Ring{
		{Lat: 40.0, Lon: -3.0},
		{Lat: 40.0, Lon: -2.99},
		{Lat: 40.01, Lon: -2.99},
		{Lat: 40.01, Lon: -3.0},
	}

	c := square.Centroid()
	assert.True(t, c.Lat.EqualWithin(40.005, model.E6))
	assert.True(t, c.Lon.EqualWithin(-2.995, model.E6))
}

func TestRing_CentroidZeroArea(t *testing.T) {
	// Collinear ring; the centroid falls back to the vertex mean.
	line := model.Ring{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 2}, {Lat: 0, Lon: 4}}

	c := line.Centroid()
	assert.True(t, c.Lat.EqualWithin(0, model.E6))
	assert.True(t, c.Lon.EqualWithin(2, model.E6))
}

func TestCircle(t *testing.T) {
	center := model.LatLng{Lat: 40.4168, Lon: -3.7038}
	fp := model.Circle(center, 5, model.DefaultCircleSegments)

	assert.NoError(t, fp.Validate())
	assert.Len(t, fp.Exterior, model.DefaultCircleSegments)

	for _, p := range fp.Exterior {
		x, y := p.LocalXY(center)
		assert.InDelta(t, 5, math.Hypot(x, y), 0.05)
	}
}

func TestCircleRaisesSegmentFloor(t *testing.T) {
	fp := model.Circle(model.LatLng{Lat: 0, Lon: 0}, 5, 4)
	assert.Len(t, fp.Exterior, model.MinCircleSegments)
}
