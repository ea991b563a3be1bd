package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidContainer, ErrInvalidGeometry, ErrElementSizeMismatch, ErrUnsupportedType,
		ErrFrameOutOfRange, ErrFrameSizeMismatch, ErrIO, ErrFileExists,
		ErrInvalidPoolState, ErrPoolStopped, ErrInvalidArchive, ErrChecksumMismatch,
		ErrUnsupportedAlgorithm,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			require.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestWrappedKeepsBothChains(t *testing.T) {
	err := fmt.Errorf("%w: open /tmp/x: %w", ErrIO, fs.ErrNotExist)

	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.NotErrorIs(t, err, ErrInvalidContainer)
}
