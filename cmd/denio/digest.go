package main

import (
	"fmt"

	"github.com/arloliu/denio/digest"
	"github.com/spf13/cobra"
)

func newDigestCmd(a *app) *cobra.Command {
	var (
		algorithm string
		perFrame  bool
	)

	cmd := &cobra.Command{
		Use:   "digest <file>",
		Short: "Checksum the data region of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if perFrame {
				sums, err := digest.FrameSums(args[0], a.cfg.Threads)
				if err != nil {
					return err
				}
				for k, s := range sums {
					fmt.Fprintf(out, "%d\t%016x\n", k, s)
				}

				return nil
			}

			if algorithm == "" {
				algorithm = a.cfg.Digest.Algorithm
			}
			alg, err := digest.ParseAlgorithm(algorithm)
			if err != nil {
				return err
			}

			sum, err := digest.Container(args[0], alg, digest.WithLogger(a.logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %s\n", sum, args[0])

			return nil
		},
	}
	cmd.Flags().StringVar(&algorithm, "algorithm", "", "xxhash64, murmur3 or blake3")
	cmd.Flags().BoolVar(&perFrame, "frames", false, "print the xxhash64 of every frame")

	return cmd
}
