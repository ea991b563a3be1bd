package main

import (
	"fmt"

	"github.com/arloliu/denio/container"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print the header of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := container.Parse(args[0], strict)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:          %s\n", info.Path)
			fmt.Fprintf(out, "header:        %s (%d bytes)\n", info.Kind, info.HeaderSize)
			fmt.Fprintf(out, "element type:  %s (%d bytes)\n", info.ElementType, info.ElementSize)
			fmt.Fprintf(out, "dimensions:    %v\n", info.Dims)
			fmt.Fprintf(out, "storage order: %s\n", info.Order)
			fmt.Fprintf(out, "frames:        %d x %d elements (%dx%d)\n", info.FrameCount, info.FrameSize, info.DimX(), info.DimY())
			fmt.Fprintf(out, "file size:     %d bytes\n", info.FileSize)
			fmt.Fprintf(out, "valid:         %t\n", info.Valid)

			a.logger.Debug("container inspected", "file", info.Path, "valid", info.Valid)

			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on any header inconsistency")

	return cmd
}
