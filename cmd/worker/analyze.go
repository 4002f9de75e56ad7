package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/config"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

type configLoader func() (*config.Config, error)

func newAnalyzeCmd(load configLoader) *cobra.Command {
	var (
		resultsDir    string
		topN          int
		includeBroken bool
		historyDir    string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze Allure results and write a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			opts := service.OptionsFromConfig(cfg)

			if cmd.Flags().Changed("results") {
				opts.ResultsDir = resultsDir
			}
			if cmd.Flags().Changed("top") {
				opts.TopN = topN
			}
			if cmd.Flags().Changed("include-broken") {
				opts.IncludeBroken = includeBroken
			}
			if cmd.Flags().Changed("history") {
				opts.HistoryDir = historyDir
			}

			ctx := logging.WithRequestID(cmd.Context(), "worker")
			res, err := service.Run(ctx, opts)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			out := cmd.OutOrStdout()
			if res.Report == nil {
				fmt.Fprintln(out, "No failures found to analyze.")
				return nil
			}
			md := res.Report.Metadata
			fmt.Fprintf(out, "Analyzed %d failures into %d groups.\n", md.TotalFailures, md.UniqueGroups)
			fmt.Fprintln(out, res.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&resultsDir, "results", "", "Allure results directory")
	cmd.Flags().IntVar(&topN, "top", config.DefaultTopN, "number of groups to report (0 = all)")
	cmd.Flags().BoolVar(&includeBroken, "include-broken", true, "include broken tests as failures")
	cmd.Flags().StringVar(&historyDir, "history", "", "reports history directory")
	return cmd
}
