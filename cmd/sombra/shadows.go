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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/sombra-maps/sombra"
	"github.com/sombra-maps/sombra/cmd/sombra/cli"
	"github.com/sombra-maps/sombra/model"
	"github.com/sombra-maps/sombra/source"
)

var (
	lat           float64
	lon           float64
	radius        float64
	sourceName    string
	date          string
	startHour     int
	endHour       int
	timezone      string
	defaultHeight float64
	buildingsIn   *os.File
	cacheDir      string
	output        string
	footprintsOut string
	cpu           uint16
)

// clock supplies "today" when no date is given.
var clock clockwork.Clock = clockwork.NewRealClock()

func init() {
	RootCmd.AddCommand(shadowsCmd)

	f := shadowsCmd.Flags()
	f.Float64Var(&lat, "lat", 0, "latitude of the query point")
	f.Float64Var(&lon, "lon", 0, "longitude of the query point")
	f.Float64VarP(&radius, "radius", "r", float64(source.DefaultRadius), "search radius in meters around the query point")
	f.StringVarP(&sourceName, "source", "s", string(source.OSM), "building source (osm, overture, catastro)")
	f.StringVarP(&date, "date", "d", "", "civil date as YYYY-MM-DD (default today)")
	f.IntVar(&startHour, "start-hour", 9, "first local clock hour to project")
	f.IntVar(&endHour, "end-hour", 21, "last local clock hour to project")
	f.StringVarP(&timezone, "timezone", "z", "Europe/Madrid", "IANA time zone the clock hours are read in")
	f.Float64Var(&defaultHeight, "default-height", float64(model.DefaultHeight), "height in meters for buildings without height data")
	f.VarP(cli.NewReaderValue(nil, &buildingsIn, "file"), "buildings", "b", "JSON document of additional custom buildings")
	f.StringVar(&cacheDir, "cache-dir", "", "directory for cached fetch results")
	f.StringVarP(&output, "output", "o", "-", "file for the shadow GeoJSON, - for stdout")
	f.StringVar(&footprintsOut, "footprints", "", "also write the merged building footprints as GeoJSON to this file")
	f.Uint16VarP(&cpu, "max-cpu", "m", sombra.DefaultNCpu(), "maximum number of CPUs to use for hour fan-out")

	_ = shadowsCmd.MarkFlagRequired("lat")
	_ = shadowsCmd.MarkFlagRequired("lon")
}

var shadowsCmd = &cobra.Command{
	Use:   "shadows",
	Short: "Project hourly shadows for the buildings around a point",
	Long:  "Project hourly shadows for the buildings around a point",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			log.Fatal(err)
		}

		day := clock.Now().In(loc)
		if date != "" {
			day, err = time.ParseInLocation("2006-01-02", date, loc)
			if err != nil {
				log.Fatal(err)
			}
		}

		center := model.LatLng{Lat: model.Degrees(lat), Lon: model.Degrees(lon)}
		if !center.Valid() {
			log.Fatalf("%s is outside WGS84 bounds", center)
		}

		kind, err := source.ParseKind(sourceName)
		if err != nil {
			log.Fatal(err)
		}

		if kind == source.Custom {
			log.Fatal("custom buildings are supplied with --buildings; --source selects a queryable provider")
		}

		var opts []source.Option
		if cacheDir != "" {
			opts = append(opts, source.WithCacheDir(cacheDir))
		}

		src, err := source.New(kind, opts...)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()

		primary, err := src.Fetch(ctx, center, model.Meters(radius), model.Meters(defaultHeight))
		if err != nil {
			// An empty area is fine when custom buildings fill it.
			if !errors.Is(err, source.ErrNoDataFound) || buildingsIn == nil {
				log.Fatal(err)
			}
		}

		var custom []model.Building
		if buildingsIn != nil {
			in, err := cli.WrapInputFile(buildingsIn)
			if err != nil {
				log.Fatal(err)
			}

			custom, err = source.ParseCustom(in)
			in.Close()

			if err != nil {
				log.Fatal(err)
			}
		}

		set, err := model.Merge(primary, custom, center)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintf(os.Stderr, "projecting %s buildings from %s to %s local time\n",
			humanize.Comma(int64(len(set.Buildings))),
			day.Format("2006-01-02"), loc)

		pipeline := sombra.NewPipeline(sombra.WithNCpus(cpu))

		hourly, err := pipeline.Run(ctx, set, day, startHour, endHour, loc)
		if err != nil {
			log.Fatal(err)
		}

		writeCollection(output, sombra.ShadowCollection(hourly))

		if footprintsOut != "" {
			writeCollection(footprintsOut, sombra.BuildingCollection(set))
		}
	},
}

func writeCollection(path string, fc *geojson.FeatureCollection) {
	raw, err := json.Marshal(fc)
	if err != nil {
		log.Fatal(err)
	}

	if path == "-" {
		fmt.Println(string(raw))

		return
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatal(err)
	}
}
