package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/config"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "worker",
		Short: "Fingerprint, group and rank Allure test failures",
		Long: "worker reads Allure *-result.json files, groups failures by root cause\n" +
			"and writes a timestamped JSON report into the reports history.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default ./config.yaml if present)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Init(cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)
		return cfg, nil
	}

	root.AddCommand(newAnalyzeCmd(load))
	root.AddCommand(newReportsCmd(load))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
