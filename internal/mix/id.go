package mix

import (
	"encoding/binary"
	"math/bits"
	"strings"
)

// EntryID returns the Westwood id of an entry name. Names are case-insensitive;
// the upper-cased name is padded with NUL to a multiple of 4 bytes and folded
// four bytes at a time with a one-bit left rotation.
func EntryID(name string) uint32 {
	b := []byte(strings.ToUpper(name))
	for len(b)%4 != 0 {
		b = append(b, 0)
	}

	var id uint32
	for i := 0; i < len(b); i += 4 {
		id = bits.RotateLeft32(id, 1) + binary.LittleEndian.Uint32(b[i:])
	}
	return id
}
