package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/model"
	"github.com/kilianp07/railctl/qa/scenarios"
)

var scenarioPath string

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run a one-shot conflict detection pass and print the report",
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (defaults to the sample snapshot)")
	rootCmd.AddCommand(detectCmd)
}

func loadSnapshot() ([]model.Train, []model.TrackSection, time.Time, error) {
	if scenarioPath == "" {
		base := time.Now().Truncate(time.Hour)
		return model.SampleTrains(base), model.SampleNetwork(), base, nil
	}
	sc, err := scenarios.Load(scenarioPath)
	if err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("load scenario: %w", err)
	}
	trains, sections := sc.Build()
	return trains, sections, scenarios.Epoch, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	trains, sections, at, err := loadSnapshot()
	if err != nil {
		return err
	}
	det := conflict.NewDetector()
	conflicts := det.Detect(trains, sections, at)
	report := map[string]any{
		"conflicts":   conflicts,
		"summary":     conflict.Summarize(conflicts),
		"resolutions": conflict.NewResolver().Suggest(conflicts, trains),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
