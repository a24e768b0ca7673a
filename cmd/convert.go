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
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/trajio/flatfile"
	"github.com/rotblauer/trajio/stream"
	"github.com/spf13/cobra"
)

var optConvertOut string

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert any trajectory source to newline-delimited GeoJSON",
	Long: `Reads trajectories from the source and writes them as
newline-delimited GeoJSON LineString features ('id' property, and
'times' when the source has a time channel) to stdout or --output.
An output path ending in .gz is gzip compressed.

Examples:

  trajio convert --format points gps.csv > trips.ndgeojson
  trajio convert --format csv trips.csv --output trips.ndgeojson.gz
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		r := mustOpenSource(cmd, args[0])
		defer r.Close()

		var w io.Writer = os.Stdout
		if optConvertOut != "" {
			f, err := flatfile.Create(optConvertOut, nil)
			if err != nil {
				log.Fatalln(err)
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatalln(err)
				}
			}()
			w = f
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out, errs := stream.TemporalTrajectories(ctx, r)
		enc := json.NewEncoder(w)
		n := 0
		for t := range out {
			if err := enc.Encode(t.Feature()); err != nil {
				log.Fatalln(err)
			}
			n++
		}
		if err := <-errs; err != nil {
			log.Fatalln(err)
		}
		slog.Info("Converted trajectories", "n", humanize.Comma(int64(n)))
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	registerSourceFlags(convertCmd)
	convertCmd.PersistentFlags().StringVarP(&optConvertOut, "output", "o", "", "output path (default stdout; .gz compresses)")
}
