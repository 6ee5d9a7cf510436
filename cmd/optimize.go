package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kilianp07/railctl/core/conflict"
	"github.com/kilianp07/railctl/core/optimizer"
	"github.com/kilianp07/railctl/infra/logger"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run a one-shot optimization pass and print the metrics",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file (defaults to the sample snapshot)")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	trains, sections, at, err := loadSnapshot()
	if err != nil {
		return err
	}
	det := conflict.NewDetector()
	conflicts := det.Detect(trains, sections, at)
	opt := optimizer.New(det, logger.New("optimize-command"))
	res := opt.Optimize(trains, sections, conflicts)

	report := map[string]any{
		"metrics":             res.Metrics,
		"conflicts_remaining": len(res.Remaining),
		"trains":              res.Trains,
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
