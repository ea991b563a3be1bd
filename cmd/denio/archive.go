package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/denio/archive"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/spf13/cobra"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		compression string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "pack <container> <archive>",
		Short: "Write a compressed, checksummed archive of a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ct, err := a.cfg.Compression()
			if err != nil {
				return err
			}
			if compression != "" {
				var ok bool
				if ct, ok = format.ParseCompressionType(strings.ToLower(compression)); !ok {
					return fmt.Errorf("%w: compression %q", errs.ErrUnsupportedAlgorithm, compression)
				}
			}

			flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			if !force {
				flags |= os.O_EXCL
			}
			f, err := os.OpenFile(args[1], flags, 0o644)
			if err != nil {
				if errors.Is(err, os.ErrExist) {
					return fmt.Errorf("%w: %s", errs.ErrFileExists, args[1])
				}

				return fmt.Errorf("%w: create %s: %w", errs.ErrIO, args[1], err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("%w: close %s: %w", errs.ErrIO, args[1], cerr)
				}
			}()

			w := bufio.NewWriterSize(f, 1<<20)
			st, err := archive.Pack(args[0], w,
				archive.WithCompression(ct),
				archive.WithThreads(a.cfg.Threads),
				archive.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("%w: write %s: %w", errs.ErrIO, args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes (%s, %.1f%% saved)\n",
				args[1], st.OriginalSize, st.CompressedSize, st.Algorithm, st.SpaceSavings())

			return nil
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "", "none, zstd, s2 or lz4")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing archive")

	return cmd
}

func newUnpackCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "unpack <archive> <container>",
		Short: "Restore a container from an archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("%w: open %s: %w", errs.ErrIO, args[0], err)
			}
			defer f.Close()

			info, err := archive.Unpack(bufio.NewReaderSize(f, 1<<20), args[1], force, archive.WithLogger(a.logger))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)

			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing incompatible container")

	return cmd
}
