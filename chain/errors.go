package chain

import "github.com/pkg/errors"

var (
	// ErrChainFrozen is returned when the structure of a frozen chain is modified.
	ErrChainFrozen = errors.New("chain is frozen")
	// ErrInvalidLength is returned for a negative or non-finite link length.
	ErrInvalidLength = errors.New("invalid link length")
	// ErrIndexOutOfRange is returned when a joint index does not exist.
	ErrIndexOutOfRange = errors.New("joint index out of range")
)

// NewIndexOutOfRangeError is used when a joint index is outside a chain of n joints.
func NewIndexOutOfRangeError(idx, n int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d in chain of %d joints", idx, n)
}
