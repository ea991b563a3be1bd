package main

import (
	"fmt"

	"github.com/arloliu/denio/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var perFrame bool

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Compute element statistics of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := stats.Container(args[0], a.cfg.Threads, a.cfg.VolumeOptions(a.logger)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if perFrame {
				for k, s := range res.Frames {
					fmt.Fprintf(out, "frame %d: %s\n", k, s)
				}
			}
			fmt.Fprintf(out, "total: %s\n", res.Total)

			return nil
		},
	}
	cmd.Flags().BoolVar(&perFrame, "frames", false, "also print per-frame statistics")

	return cmd
}
