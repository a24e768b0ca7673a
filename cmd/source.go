/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/reader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optFormat string
var optDelim string
var optIDCol string
var optGeomCol string
var optXCol string
var optYCol string
var optTimeCol string

// registerSourceFlags wires the input-shape flags shared by every
// command that opens a trajectory source.
func registerSourceFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&optFormat, "format", "points", "input format: geojson|csv|points")
	pf.StringVar(&optDelim, "delim", string(params.DefaultDelimiter), "field delimiter (single character)")
	pf.StringVar(&optIDCol, "id-col", params.DefaultIDColumn, "trajectory id column name")
	pf.StringVar(&optGeomCol, "geom-col", params.DefaultGeomColumn, "WKT geometry column name (csv format)")
	pf.StringVar(&optXCol, "x-col", params.DefaultXColumn, "x coordinate column name (points format)")
	pf.StringVar(&optYCol, "y-col", params.DefaultYColumn, "y coordinate column name (points format)")
	pf.StringVar(&optTimeCol, "time-col", params.DefaultTimeColumn, "timestamp column name (optional)")
}

// sourceOpt resolves one source option: an explicit flag beats the
// config file ('format', 'delim', 'columns.id', ...), which beats the
// flag default. Binding viper keys directly would tangle the three
// commands sharing these flag variables.
func sourceOpt(cmd *cobra.Command, flag, key, val string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	return val
}

// openSource builds a reader for path per the source flags.
// Setup failures (unopenable file, missing column, wrong geometry
// kind) come back as errors for the caller to treat as fatal.
func openSource(cmd *cobra.Command, path string) (reader.Reader, error) {
	format := sourceOpt(cmd, "format", "format", optFormat)
	if format == "geojson" {
		return reader.NewGeoJSONReader(path)
	}
	delim := sourceOpt(cmd, "delim", "delim", optDelim)
	if len(delim) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", delim)
	}
	switch format {
	case "csv":
		return reader.NewCSVTemporalReader(path, &params.CSVConfig{
			Delimiter: delim[0],
			ID:        sourceOpt(cmd, "id-col", "columns.id", optIDCol),
			Geom:      sourceOpt(cmd, "geom-col", "columns.geom", optGeomCol),
			Time:      sourceOpt(cmd, "time-col", "columns.time", optTimeCol),
		})
	case "points":
		return reader.NewPointReader(path, &params.PointConfig{
			Delimiter: delim[0],
			ID:        sourceOpt(cmd, "id-col", "columns.id", optIDCol),
			X:         sourceOpt(cmd, "x-col", "columns.x", optXCol),
			Y:         sourceOpt(cmd, "y-col", "columns.y", optYCol),
			Time:      sourceOpt(cmd, "time-col", "columns.time", optTimeCol),
		})
	}
	return nil, fmt.Errorf("unknown format %q (want geojson|csv|points)", format)
}

// mustOpenSource is the process boundary for configuration errors:
// diagnostic, then non-zero exit. Per-record errors never come
// through here.
func mustOpenSource(cmd *cobra.Command, path string) reader.Reader {
	r, err := openSource(cmd, path)
	if err != nil {
		log.Fatalln(err)
	}
	return r
}
