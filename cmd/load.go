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
	"log"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/store"
	"github.com/rotblauer/trajio/stream"
	"github.com/spf13/cobra"
)

var optDBPath string

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a trajectory source into the store",
	Long: `Reads trajectories from the source and appends them to the bbolt
store. Each read trajectory gets its own record; non-contiguous runs
of the same id in a point stream load as separate records, matching
the reader contract.

Examples:

  trajio load --format points gps.csv
  trajio load --format geojson trips.geojson --db /tmp/trips.db
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		r := mustOpenSource(cmd, args[0])
		defer r.Close()

		config := params.DefaultStoreConfig()
		if optDBPath != "" {
			config.DBPath = optDBPath
		}
		s, err := store.New(config)
		if err != nil {
			log.Fatalln(err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Fatalln(err)
			}
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out, errs := stream.TemporalTrajectories(ctx, r)
		if err := s.Load(ctx, out); err != nil {
			log.Fatalln(err)
		}
		if err := <-errs; err != nil {
			log.Fatalln(err)
		}

		n, err := s.Count()
		if err != nil {
			log.Fatalln(err)
		}
		slog.Info("Store loaded", "db", config.DBPath, "trajectories", humanize.Comma(int64(n)))
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	registerSourceFlags(loadCmd)
	loadCmd.PersistentFlags().StringVar(&optDBPath, "db", "", "store database path (default $HOME/.trajio/trajectories.db)")
}
