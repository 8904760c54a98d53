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
	"errors"
	"fmt"
)

// DefaultHeight is the fallback building height when a provider supplies
// neither an explicit height nor a floor count.
const DefaultHeight Meters = 15

// MetersPerFloor converts a floor count into an estimated height.
const MetersPerFloor Meters = 3

// ErrEmptyResult reports a merge in which both inputs were empty.
var ErrEmptyResult = errors.New("model: no buildings to merge")

// ID is the primary key of a building within one BuildingSet.
type ID uint64

// Building couples a footprint with a height.  Buildings are immutable once
// placed in a BuildingSet.
type Building struct {
	ID        ID        `json:"id"`
	Footprint Footprint `json:"footprint"`
	Height    Meters    `json:"height"`
}

// NewBuilding validates the footprint and height invariants.
func NewBuilding(id ID, fp Footprint, height Meters) (Building, error) {
	if err := fp.Validate(); err != nil {
		return Building{}, err
	}

	if height <= 0 {
		return Building{}, fmt.Errorf("model: building height %s must be positive", ftoa(float64(height)))
	}

	return Building{ID: id, Footprint: fp, Height: height}, nil
}

// BuildingSet is the merged collection of buildings for one pipeline run.
// Ref is the common solar reference point, fixed once per run.
type BuildingSet struct {
	Buildings []Building `json:"buildings"`
	Ref       LatLng     `json:"ref"`
}

// Merge concatenates provider and custom buildings into one set, reassigning
// ids so they are unique across both inputs.  Overlapping geometry is kept
// as-is; layering a proposed building onto real data is the point.
func Merge(primary, custom []Building, ref LatLng) (BuildingSet, error) {
	if len(primary)+len(custom) == 0 {
		return BuildingSet{}, ErrEmptyResult
	}

	merged := make([]Building, 0, len(primary)+len(custom))

	var next ID
	for _, b := range primary {
		next++
		b.ID = next
		merged = append(merged, b)
	}

	for _, b := range custom {
		next++
		b.ID = next
		merged = append(merged, b)
	}

	return BuildingSet{Buildings: merged, Ref: ref}, nil
}

// Bounds returns the bounding box enclosing every building footprint.
func (s BuildingSet) Bounds() *BoundingBox {
	bbox := InitialBoundingBox()

	for _, b := range s.Buildings {
		bbox.ExpandWithBoundingBox(b.Footprint.Bounds())
	}

	return bbox
}

// Shadow is the ground projection of one building's silhouette.  BuildingID
// is a weak reference used to join shadows back to their buildings.  Parts
// holds one footprint per polygon when the union splits the shadow.
type Shadow struct {
	BuildingID ID          `json:"building_id"`
	Parts      []Footprint `json:"parts"`
}

// HourlyShadows maps an hour of day, 0 through 23, to the shadows computed
// for it.  Hours whose sun position is below the horizon are absent.
type HourlyShadows map[int][]Shadow
