// Package bignum implements the fixed-width unsigned integer arithmetic used to
// recover MIX archive Blowfish keys.
//
// An Int is a slice of 32-bit words, least significant word first. Every
// operation takes an explicit word limit; callers pass the same limit they used
// to allocate the operand (or a smaller working length). Words beyond the
// significant length must be zero between operations.
package bignum

import "math/bits"

// Capacities used by the key protocol.
const (
	// HiWords holds the two leading words of a modulus and their reciprocal.
	HiWords = 4

	// KeyWords bounds the modulus, exponent, base and result.
	KeyWords = 64

	// ProductWords holds a double-width product plus the guard words used
	// during reduction.
	ProductWords = 2*KeyWords + 2
)

// Int is a fixed-width unsigned integer.
type Int []uint32

// New returns a zeroed Int with room for words 32-bit words.
func New(words int) Int {
	return make(Int, words)
}

// Init zeroes the first limit words of x and stores v in word 0.
func Init(x Int, v uint32, limit int) {
	clear(x[:limit])
	x[0] = v
}

// Move copies limit words from src to dst. Overlapping operands are allowed.
func Move(dst, src Int, limit int) {
	copy(dst[:limit], src[:limit])
}

// WordLen returns the index of the highest non-zero word plus one,
// or 0 when x is zero.
func WordLen(x Int, limit int) int {
	i := limit - 1
	for i >= 0 && x[i] == 0 {
		i--
	}
	return i + 1
}

// BitLen returns the number of significant bits in x.
func BitLen(x Int, limit int) int {
	n := WordLen(x, limit)
	if n == 0 {
		return 0
	}
	return (n-1)*32 + bits.Len32(x[n-1])
}

// Cmp compares a and b as unsigned integers and returns -1, 0 or +1.
func Cmp(a, b Int, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Inc adds one to x, wrapping to zero past the limit.
func Inc(x Int, limit int) {
	for i := 0; i < limit; i++ {
		x[i]++
		if x[i] != 0 {
			return
		}
	}
}

// Dec subtracts one from x. Zero wraps to all ones.
func Dec(x Int, limit int) {
	for i := 0; i < limit; i++ {
		x[i]--
		if x[i] != 0xffffffff {
			return
		}
	}
}

// Not complements every word of x.
func Not(x Int, limit int) {
	for i := range x[:limit] {
		x[i] = ^x[i]
	}
}

// Neg replaces x with its two's complement.
func Neg(x Int, limit int) {
	Not(x, limit)
	Inc(x, limit)
}

// Shl shifts x left by n bits. Whole-word shifts zero every vacated word,
// word 0 included.
func Shl(x Int, n, limit int) {
	if w := n / 32; w > 0 {
		i := limit - 1
		for ; i >= w; i-- {
			x[i] = x[i-w]
		}
		for ; i >= 0; i-- {
			x[i] = 0
		}
		n %= 32
	}
	if n == 0 {
		return
	}

	s := uint(n)
	for i := limit - 1; i > 0; i-- {
		x[i] = x[i]<<s | x[i-1]>>(32-s)
	}
	x[0] <<= s
}

// Shr shifts x right by n bits. Whole-word shifts zero every vacated word,
// word limit-1 included.
func Shr(x Int, n, limit int) {
	if w := n / 32; w > 0 {
		i := 0
		for ; i < limit-w; i++ {
			x[i] = x[i+w]
		}
		for ; i < limit; i++ {
			x[i] = 0
		}
		n %= 32
	}
	if n == 0 {
		return
	}

	s := uint(n)
	for i := 0; i < limit-1; i++ {
		x[i] = x[i]>>s | x[i+1]<<(32-s)
	}
	x[limit-1] >>= s
}

// Sub stores a - b - borrow in dst and returns the outgoing borrow (0 or 1).
func Sub(dst, a, b Int, borrow uint32, limit int) uint32 {
	return subHalves(dst, 0, a, 0, b, borrow, 2*limit)
}
