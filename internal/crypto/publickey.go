package crypto

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/udisondev/mixkey/internal/bignum"
	"github.com/udisondev/mixkey/internal/constants"
)

// PublicKey is the fixed modulus/exponent pair used to recover archive keys.
// It is immutable once built and safe to share between goroutines.
type PublicKey struct {
	Modulus  bignum.Int
	Exponent bignum.Int

	// BitLen is the bit length of Modulus minus one.
	BitLen int
}

// charTable maps a key string symbol to its 6-bit value, -1 for symbols
// outside the alphabet. Bytes above 0x7F are never valid.
var charTable = [128]int8{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 62, -1, -1, -1, 63,
	52, 53, 54, 55, 56, 57, 58, 59, 60, 61, -1, -1, -1, -1, -1, -1,
	-1, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14,
	15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, -1, -1, -1, -1, -1,
	-1, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40,
	41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, -1, -1, -1, -1, -1,
}

// keyEncoding is the base64 encoding described by charTable.
var keyEncoding = base64.NewEncoding(alphabet(charTable)).WithPadding(base64.NoPadding)

// alphabet inverts a symbol table into a 64-symbol encoding alphabet.
// It panics unless every value 0..63 is produced by exactly one symbol.
func alphabet(table [128]int8) string {
	var out [64]byte
	var seen [64]bool
	for c, v := range table {
		if v < 0 {
			continue
		}
		if v > 63 || seen[v] {
			panic(fmt.Sprintf("crypto: symbol table maps %q to invalid or duplicate value %d", rune(c), v))
		}
		seen[v] = true
		out[v] = byte(c)
	}
	for v, ok := range seen {
		if !ok {
			panic(fmt.Sprintf("crypto: symbol table has no symbol for value %d", v))
		}
	}
	return string(out[:])
}

var defaultPublicKey = sync.OnceValues(func() (*PublicKey, error) {
	return NewPublicKey(constants.ModulusKeyString)
})

// DefaultPublicKey returns the public key embedded in the game executables.
// The key string is decoded once; later calls return the cached result.
func DefaultPublicKey() (*PublicKey, error) {
	return defaultPublicKey()
}

// NewPublicKey decodes a base64 encoded ASN.1 INTEGER modulus and pairs it
// with the fixed public exponent.
func NewPublicKey(keyString string) (*PublicKey, error) {
	der, err := keyEncoding.DecodeString(keyString)
	if err != nil {
		return nil, fmt.Errorf("decoding key string: %w: %w", ErrModulusDecode, err)
	}

	mod, err := ParseModulus(der, bignum.KeyWords)
	if err != nil {
		return nil, err
	}
	if mod[bignum.KeyWords-1]&0x80000000 != 0 {
		return nil, fmt.Errorf("negative modulus: %w", ErrModulusDecode)
	}

	exp := bignum.New(bignum.KeyWords)
	bignum.Init(exp, constants.PublicExponent, bignum.KeyWords)

	return &PublicKey{
		Modulus:  mod,
		Exponent: exp,
		BitLen:   bignum.BitLen(mod, bignum.KeyWords) - 1,
	}, nil
}

// ParseModulus parses a DER INTEGER into an Int of limit words. Content with
// its top bit set is sign extended with 0xFF bytes.
func ParseModulus(der []byte, limit int) (bignum.Int, error) {
	if len(der) < 2 || der[0] != constants.ASN1IntegerTag {
		return nil, fmt.Errorf("expected INTEGER tag: %w", ErrModulusDecode)
	}
	der = der[1:]

	length := int(der[0])
	der = der[1:]
	if length&0x80 != 0 {
		n := length & 0x7f
		if n == 0 || n > 4 || n > len(der) {
			return nil, fmt.Errorf("bad long-form length of %d bytes: %w", n, ErrModulusDecode)
		}
		length = 0
		for _, b := range der[:n] {
			length = length<<8 | int(b)
		}
		der = der[n:]
	}

	if length > limit*4 {
		return nil, fmt.Errorf("content of %d bytes exceeds %d: %w", length, limit*4, ErrModulusTooLarge)
	}
	if length > len(der) {
		return nil, fmt.Errorf("content truncated: %d of %d bytes: %w", len(der), length, ErrModulusDecode)
	}
	content := der[:length]

	var sign byte
	if length > 0 && content[0]&0x80 != 0 {
		sign = 0xff
	}

	le := make([]byte, limit*4)
	for i := range le {
		if i < length {
			le[i] = content[length-1-i]
		} else {
			le[i] = sign
		}
	}

	x := bignum.New(limit)
	bignum.SetBytesLE(x, le, limit)
	return x, nil
}
