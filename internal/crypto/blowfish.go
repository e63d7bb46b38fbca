package crypto

import (
	"fmt"

	"golang.org/x/crypto/blowfish"

	"github.com/udisondev/mixkey/internal/constants"
)

// BlowfishCipher wraps Blowfish ECB encryption/decryption for MIX headers.
//
// Westwood's implementation loads both 32-bit halves of a block little-endian,
// while x/crypto loads them big-endian, so every half is byte-swapped around
// the block operation.
type BlowfishCipher struct {
	cipher *blowfish.Cipher
}

// NewBlowfishCipher creates a new Blowfish ECB cipher from the given key.
func NewBlowfishCipher(key []byte) (*BlowfishCipher, error) {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating blowfish cipher: %w", err)
	}
	return &BlowfishCipher{cipher: c}, nil
}

// Encrypt encrypts data in-place using Blowfish ECB mode.
// Size must be a multiple of 8.
func (b *BlowfishCipher) Encrypt(data []byte, offset, size int) error {
	if err := checkRange("blowfish encrypt", data, offset, size); err != nil {
		return err
	}
	for i := offset; i < offset+size; i += constants.BlowfishBlockSize {
		blk := data[i : i+constants.BlowfishBlockSize]
		swapHalves(blk)
		b.cipher.Encrypt(blk, blk)
		swapHalves(blk)
	}
	return nil
}

// Decrypt decrypts data in-place using Blowfish ECB mode.
// Size must be a multiple of 8.
func (b *BlowfishCipher) Decrypt(data []byte, offset, size int) error {
	if err := checkRange("blowfish decrypt", data, offset, size); err != nil {
		return err
	}
	for i := offset; i < offset+size; i += constants.BlowfishBlockSize {
		blk := data[i : i+constants.BlowfishBlockSize]
		swapHalves(blk)
		b.cipher.Decrypt(blk, blk)
		swapHalves(blk)
	}
	return nil
}

func checkRange(op string, data []byte, offset, size int) error {
	if size%constants.BlowfishBlockSize != 0 {
		return fmt.Errorf("%s: size %d is not a multiple of 8", op, size)
	}
	if offset < 0 || offset+size > len(data) {
		return fmt.Errorf("%s: offset %d + size %d exceeds data length %d", op, offset, size, len(data))
	}
	return nil
}

// swapHalves reverses the byte order of both 32-bit halves of an 8-byte block.
func swapHalves(blk []byte) {
	blk[0], blk[1], blk[2], blk[3] = blk[3], blk[2], blk[1], blk[0]
	blk[4], blk[5], blk[6], blk[7] = blk[7], blk[6], blk[5], blk[4]
}
