package filters

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for out-of-range numeric parameters such as
// non-positive kernel or region sizes. Kernel-size parity is not an error;
// even sizes are corrected upward instead.
var ErrInvalidArgument = errors.New("filters: invalid argument")

func errInvalidKernel(size int) error {
	return fmt.Errorf("%w: kernel size %d must be positive", ErrInvalidArgument, size)
}

func errInvalidSize(what string, size int) error {
	return fmt.Errorf("%w: %s %d must be positive", ErrInvalidArgument, what, size)
}
