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

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/trajio/reader"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarize a trajectory source",
	Long: `Reads the whole source and prints trajectory and point counts,
point-count distribution, and (when a time channel is present)
duration distribution.

Examples:

  trajio stats --format points gps.csv
  trajio stats --format csv --delim ';' trips.csv
  trajio stats --format geojson trips.geojson
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		r := mustOpenSource(cmd, args[0])
		defer r.Close()

		trajs, err := reader.ReadAllTemporal(r)
		if err != nil {
			log.Fatalln(err)
		}

		pointCounts := make([]float64, 0, len(trajs))
		durations := []float64{}
		totalPoints := 0
		for _, t := range trajs {
			pointCounts = append(pointCounts, float64(t.NumPoints()))
			totalPoints += t.NumPoints()
			if t.HasTimestamps() {
				durations = append(durations, t.Duration())
			}
		}

		fmt.Printf("trajectories: %s\n", humanize.Comma(int64(len(trajs))))
		fmt.Printf("points:       %s\n", humanize.Comma(int64(totalPoints)))
		if len(pointCounts) > 0 {
			mean, _ := stats.Mean(pointCounts)
			median, _ := stats.Median(pointCounts)
			max, _ := stats.Max(pointCounts)
			fmt.Printf("points/trajectory: mean=%.1f median=%.0f max=%.0f\n", mean, median, max)
		}
		if len(durations) > 0 {
			mean, _ := stats.Mean(durations)
			max, _ := stats.Max(durations)
			fmt.Printf("duration: mean=%.1f max=%.1f (n=%d)\n", mean, max, len(durations))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	registerSourceFlags(statsCmd)
}
