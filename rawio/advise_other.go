//go:build !linux

package rawio

import "os"

func adviseSequential(_ *os.File) error {
	return nil
}
