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
	"log"
	"os"

	"github.com/rotblauer/trajio/params"
	"github.com/rotblauer/trajio/store"
	"github.com/spf13/cobra"
)

var optDumpID int

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump stored trajectories as newline-delimited GeoJSON",
	Long: `Writes stored trajectories to stdout in load order.
--id keeps only trajectories with that id; remember ids are not
unique, so this may emit several records.

Examples:

  trajio dump --db /tmp/trips.db
  trajio dump --id 42
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		config := params.DefaultStoreConfig()
		if optDBPath != "" {
			config.DBPath = optDBPath
		}
		s, err := store.New(config)
		if err != nil {
			log.Fatalln(err)
		}
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		out, errs := s.Dump(ctx, optDumpID)
		enc := json.NewEncoder(os.Stdout)
		for t := range out {
			if err := enc.Encode(t.Feature()); err != nil {
				log.Fatalln(err)
			}
		}
		if err := <-errs; err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.PersistentFlags().StringVar(&optDBPath, "db", "", "store database path (default $HOME/.trajio/trajectories.db)")
	dumpCmd.PersistentFlags().IntVar(&optDumpID, "id", -1, "only dump trajectories with this id (-1 for all)")
}
