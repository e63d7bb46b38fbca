package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrModulusDecode reports a malformed embedded modulus.
	ErrModulusDecode = errors.New("decoding public modulus")

	// ErrModulusTooLarge reports modulus content wider than the working capacity.
	// It matches ErrModulusDecode under errors.Is.
	ErrModulusTooLarge = fmt.Errorf("modulus too large: %w", ErrModulusDecode)

	// ErrDegenerateModulus reports a modulus too small to carry a key block.
	ErrDegenerateModulus = errors.New("degenerate modulus")

	// ErrInputLength reports a key source shorter than the block-aligned length.
	ErrInputLength = errors.New("key source too short")
)

// InputLengthError describes a short key source.
type InputLengthError struct {
	Got  int
	Want int
}

func (e *InputLengthError) Error() string {
	return fmt.Sprintf("key source too short: got %d bytes, need %d", e.Got, e.Want)
}

// Is reports whether target is ErrInputLength.
func (e *InputLengthError) Is(target error) bool {
	return target == ErrInputLength
}
