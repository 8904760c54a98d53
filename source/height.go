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
	"strconv"
	"strings"

	"github.com/sombra-maps/sombra/model"
)

// Height inference is a per-provider precedence chain: an explicit height
// always outranks a floor-derived estimate, which always outranks the
// caller-supplied default.  The helpers here report ok=false for anything
// unparseable or non-positive so the chain falls through to the next link.

// parseMeters parses a length value that may be a number, a numeric string,
// or a string with a unit suffix such as "25 m".
func parseMeters(v any) (model.Meters, bool) {
	f, ok := parseFloat(v)
	if !ok || f <= 0 {
		return 0, false
	}

	return model.Meters(f), true
}

// floorsToHeight converts a floor count into an estimated height at three
// meters per floor.
func floorsToHeight(v any) (model.Meters, bool) {
	f, ok := parseFloat(v)
	if !ok || f <= 0 {
		return 0, false
	}

	return model.Meters(f) * model.MetersPerFloor, true
}

// parseFloat accepts the numeric shapes that show up in provider records:
// JSON numbers, integer fields, and tag strings.
func parseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimSuffix(s, "m")
		s = strings.TrimSpace(s)

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}
