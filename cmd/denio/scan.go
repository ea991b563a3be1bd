package main

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/arloliu/denio/container"
	"github.com/karrick/godirwalk"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var invalidOnly bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "List the containers below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exts := a.cfg.Scan.Extensions

			var found []*container.Info
			err := godirwalk.Walk(args[0], &godirwalk.Options{
				FollowSymbolicLinks: a.cfg.Scan.FollowSymlinks,
				Unsorted:            true,
				Callback: func(path string, de *godirwalk.Dirent) error {
					if !slices.Contains(exts, filepath.Ext(path)) {
						return nil
					}
					if isDir, err := de.IsDirOrSymlinkToDir(); err != nil || isDir {
						return nil
					}

					info, err := container.Parse(path, false)
					if err != nil {
						a.logger.Debug("skipping unreadable file", "file", path, "error", err)
						return nil
					}
					if invalidOnly && info.Valid {
						return nil
					}
					found = append(found, info)

					return nil
				},
				ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
					a.logger.Warn("scan error", "path", path, "error", err)
					return godirwalk.SkipNode
				},
			})
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			slices.SortFunc(found, func(x, y *container.Info) int {
				return cmp.Compare(x.Path, y.Path)
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tHEADER\tTYPE\tDIMS\tORDER\tVALID")
			for _, info := range found {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\t%t\n", info.Path, info.Kind, info.ElementType, info.Dims, info.Order, info.Valid)
			}

			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&invalidOnly, "invalid", false, "list only containers that fail validation")

	return cmd
}
