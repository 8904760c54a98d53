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

// Package solar computes the sun's altitude and azimuth for an instant and a
// coordinate, using the NOAA low-accuracy algorithm: ecliptic longitude from
// Julian centuries, obliquity correction, equation of time, hour angle, then
// spherical trigonometry.  No atmospheric refraction is applied; positions
// are good to roughly 0.2 degrees away from the horizon, which is ample for
// shadow rendering.
//
// Every function here is a pure function of its arguments.
package solar

import (
	"math"
	"time"

	"github.com/sombra-maps/sombra/model"
)

const (
	j2000              = 2451545.0 // Julian day of the J2000 epoch
	julianCentury      = 36525.0
	unixEpochJulianDay = 2440587.5

	minutesPerDay    = 1440.0
	minutesPerDegree = 4.0 // the earth rotates a degree every four minutes
)

// Position is the sun's place in the sky for one UTC instant and coordinate.
// Altitude is degrees above the horizon, in (-90, 90]; Azimuth is the compass
// bearing of the sun, clockwise from north, in [0, 360).
type Position struct {
	Altitude model.Degrees `json:"altitude"`
	Azimuth  model.Degrees `json:"azimuth"`
}

// At returns the sun's position at instant t as seen from the coordinate.
// The second return value is false when the sun is at or below the horizon;
// the Position is then the zero value, not a numeric altitude.
func At(t time.Time, lat, lon model.Degrees) (Position, bool) {
	pos := compute(t.UTC(), lat, lon)
	if pos.Altitude <= 0 {
		return Position{}, false
	}

	return pos, true
}

// ForCivil resolves a local civil date and hour in loc to a UTC instant,
// honoring the zone's offset and daylight-saving rules on that date, and
// returns the sun's position for it.
func ForCivil(year int, month time.Month, day, hour int, loc *time.Location, lat, lon model.Degrees) (Position, bool) {
	return At(time.Date(year, month, day, hour, 0, 0, 0, loc), lat, lon)
}

func compute(t time.Time, lat, lon model.Degrees) Position {
	jc := (julianDay(t) - j2000) / julianCentury

	meanLong := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360)
	meanAnom := 357.52911 + jc*(35999.05029-0.0001537*jc)
	eccent := 0.016708634 - jc*(0.000042037+0.0000001267*jc)

	m := deg2rad(meanAnom)
	center := math.Sin(m)*(1.914602-jc*(0.004817+0.000014*jc)) +
		math.Sin(2*m)*(0.019993-0.000101*jc) +
		math.Sin(3*m)*0.000289

	trueLong := meanLong + center
	omega := deg2rad(125.04 - 1934.136*jc)
	appLong := deg2rad(trueLong - 0.00569 - 0.00478*math.Sin(omega))

	meanObliq := 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
	obliq := deg2rad(meanObliq) + deg2rad(0.00256)*math.Cos(omega)

	declin := math.Asin(math.Sin(obliq) * math.Sin(appLong))

	// Equation of time, in minutes.
	y := math.Tan(obliq / 2)
	y *= y
	l0 := deg2rad(meanLong)
	eqTime := minutesPerDegree * rad2deg(
		y*math.Sin(2*l0)-
			2*eccent*math.Sin(m)+
			4*eccent*y*math.Sin(m)*math.Cos(2*l0)-
			0.5*y*y*math.Sin(4*l0)-
			1.25*eccent*eccent*math.Sin(2*m))

	utcMinutes := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	trueSolarTime := math.Mod(utcMinutes+eqTime+minutesPerDegree*float64(lon), minutesPerDay)
	if trueSolarTime < 0 {
		trueSolarTime += minutesPerDay
	}

	hourAngle := trueSolarTime/minutesPerDegree - 180
	if hourAngle < -180 {
		hourAngle += 360
	}

	latR := lat.Radians()
	haR := deg2rad(hourAngle)

	cosZenith := math.Sin(latR)*math.Sin(declin) + math.Cos(latR)*math.Cos(declin)*math.Cos(haR)
	cosZenith = clamp(cosZenith)
	zenith := math.Acos(cosZenith)

	var azimuth float64

	azDenom := math.Cos(latR) * math.Sin(zenith)
	if math.Abs(azDenom) > 0.001 {
		azRel := clamp((math.Sin(latR)*cosZenith - math.Sin(declin)) / azDenom)
		azimuth = 180 - rad2deg(math.Acos(azRel))

		if hourAngle > 0 {
			azimuth = -azimuth
		}
	} else if lat > 0 {
		// Sun passes through the zenith or nadir; the azimuth degenerates.
		azimuth = 180
	}

	return Position{
		Altitude: model.Degrees(90 - rad2deg(zenith)),
		Azimuth:  model.Degrees(azimuth).Normalized(),
	}
}

// julianDay converts an instant to a fractional Julian day.
func julianDay(t time.Time) float64 {
	return float64(t.UnixMilli())/(minutesPerDay*60*1000) + unixEpochJulianDay
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
