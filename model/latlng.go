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

package model

import (
	"fmt"
	"math"
)

const (
	// MetersPerDegree is the length of one degree of latitude.  At footprint
	// scales, tens to hundreds of meters, an equirectangular approximation
	// built on this constant is accurate to well under a meter, so it is used
	// everywhere instead of full geodesic math.
	MetersPerDegree Meters = 111320

	MaxLat Degrees = 90.0
	MaxLon Degrees = 180.0
	MinLat Degrees = -90.0
	MinLon Degrees = -180.0
)

// LatLng is a point on the earth's surface in WGS84 decimal degrees.
type LatLng struct {
	Lat Degrees `json:"lat"`
	Lon Degrees `json:"lon"`
}

// Valid reports whether the point lies within WGS84 bounds.
func (p LatLng) Valid() bool {
	return MinLat <= p.Lat && p.Lat <= MaxLat && MinLon <= p.Lon && p.Lon <= MaxLon
}

func (p LatLng) String() string {
	return fmt.Sprintf("(%s, %s)", ftoa(float64(p.Lat)), ftoa(float64(p.Lon)))
}

// Destination returns the point at the given distance along the given compass
// bearing, using a local equirectangular offset centered on p.
func (p LatLng) Destination(bearing Degrees, distance Meters) LatLng {
	north := float64(distance) * math.Cos(bearing.Radians())
	east := float64(distance) * math.Sin(bearing.Radians())

	return p.Offset(east, north)
}

// Offset displaces the point east and north by the given meters.
func (p LatLng) Offset(east, north float64) LatLng {
	lat := p.Lat + Degrees(north/float64(MetersPerDegree))
	lon := p.Lon + Degrees(east/(float64(MetersPerDegree)*math.Cos(p.Lat.Radians())))

	return LatLng{Lat: lat, Lon: lon}
}

// LocalXY projects the point into a meter frame centered on origin, x east
// and y north.
func (p LatLng) LocalXY(origin LatLng) (x, y float64) {
	y = float64(p.Lat-origin.Lat) * float64(MetersPerDegree)
	x = float64(p.Lon-origin.Lon) * float64(MetersPerDegree) * math.Cos(origin.Lat.Radians())

	return x, y
}

// FromLocalXY is the inverse of LocalXY.
func FromLocalXY(origin LatLng, x, y float64) LatLng {
	return origin.Offset(x, y)
}
