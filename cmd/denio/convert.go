package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/rawio"
	"github.com/arloliu/denio/volume"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		orderName string
		typeName  string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Copy a container, changing its element type or storage order",
		Long: `convert rewrites every frame of <src> into a new Extended container <dst>.
Elements are converted with Go conversion semantics; frames are transposed on
disk when the storage order changes, so dst reads back the same frames.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			if filepath.Clean(src) == filepath.Clean(dst) {
				return fmt.Errorf("%w: source and destination are the same file", errs.ErrInvalidArgument)
			}

			info, err := container.Parse(src, true)
			if err != nil {
				return err
			}

			et, order := info.ElementType, info.Order
			if typeName != "" {
				var ok bool
				if et, ok = format.ParseElementType(strings.ToLower(typeName)); !ok {
					return fmt.Errorf("%w: element type %q", errs.ErrUnsupportedType, typeName)
				}
			}
			if orderName != "" {
				var ok bool
				if order, ok = format.ParseStorageOrder(strings.ToLower(orderName)); !ok {
					return fmt.Errorf("%w: storage order %q", errs.ErrInvalidArgument, orderName)
				}
			}
			if rawio.Exists(dst) && !force {
				return fmt.Errorf("%w: %s", errs.ErrFileExists, dst)
			}

			opts := append(a.cfg.VolumeOptions(a.logger), volume.WithStorageOrder(order))
			if err := convertTo(et, src, dst, opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s -> %s %s\n", dst, info.ElementType, info.Order, et, order)

			return nil
		},
	}
	cmd.Flags().StringVar(&orderName, "order", "", "storage order of dst: x-major or y-major (default: as src)")
	cmd.Flags().StringVar(&typeName, "type", "", "element type of dst, e.g. float32 (default: as src)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing dst")

	return cmd
}

func convertTo(et format.ElementType, src, dst string, opts []volume.Option) error {
	switch et {
	case format.TypeUint8:
		return convert[uint8](src, dst, opts)
	case format.TypeUint16:
		return convert[uint16](src, dst, opts)
	case format.TypeInt16:
		return convert[int16](src, dst, opts)
	case format.TypeUint32:
		return convert[uint32](src, dst, opts)
	case format.TypeInt32:
		return convert[int32](src, dst, opts)
	case format.TypeUint64:
		return convert[uint64](src, dst, opts)
	case format.TypeInt64:
		return convert[int64](src, dst, opts)
	case format.TypeFloat32:
		return convert[float32](src, dst, opts)
	case format.TypeFloat64:
		return convert[float64](src, dst, opts)
	default:
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedType, et)
	}
}

func convert[T codec.Element](src, dst string, opts []volume.Option) (err error) {
	r, err := volume.OpenReader[T](src, opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := volume.CreateBufferedWriter[T](dst, r.Info().Dims, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	f := frame.NewBuffered[T](r.DimX(), r.DimY())
	for k := range r.FrameCount() {
		if err := r.ReadFrameInto(k, f.Data(), format.XMajor); err != nil {
			return err
		}
		if err := w.WriteFrame(f, k); err != nil {
			return err
		}
	}

	return nil
}
