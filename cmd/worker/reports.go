package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/report"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
)

func newReportsCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect the reports history",
	}

	store := func() (*report.Store, error) {
		cfg, err := load()
		if err != nil {
			return nil, err
		}
		return service.OptionsFromConfig(cfg).Store(), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			ids, err := s.List()
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAGE")
			for _, id := range ids {
				age := ""
				if t, err := time.ParseInLocation(report.TimestampLayout, id[:len(report.TimestampLayout)], time.Local); err == nil {
					age = humanize.Time(t)
				}
				fmt.Fprintf(tw, "%s\t%s\n", id, age)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store()
			if err != nil {
				return err
			}
			raw, err := s.LoadRaw(args[0])
			if err != nil {
				return fmt.Errorf("report %s: %w", args[0], err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	})

	return cmd
}
