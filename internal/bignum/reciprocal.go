package bignum

// Reciprocal computes a fixed-point reciprocal of src by restoring binary long
// division, one quotient bit per step. For b = BitLen(src) the result is
// 2*floor(2^(2b-1)/src); when src is a power of two the quotient saturates to
// b one-bits. BitLen(src) must be below 32*limit.
func Reciprocal(dst, src Int, limit int) {
	Init(dst, 0, limit)
	n := BitLen(src, limit)
	if n == 0 {
		return
	}

	rem := New(limit)
	rem[(n-1)/32] |= 1 << uint((n-1)%32)
	for p := n; p > 0; p-- {
		Shl(rem, 1, limit)
		if Cmp(rem, src, limit) >= 0 {
			Sub(rem, rem, src, 0, limit)
			dst[p/32] |= 1 << uint(p%32)
		}
	}
}

// Reset establishes the reduction context for modulus m over limit words:
// a private copy of m, its bit and half-word lengths, and a 32-bit reciprocal
// of its two leading words split into 16-bit halves for quotient estimation.
// m must span at least two words.
func (w *Workspace) Reset(m Int, limit int) {
	n := WordLen(m, limit)
	if n < 2 {
		panic("bignum: modulus must span at least two words")
	}

	Init(w.mod, 0, KeyWords)
	Move(w.mod, m, limit)
	w.limit = limit
	w.bitLen = BitLen(w.mod, limit)
	w.halfLen = (w.bitLen + 15) / 16

	// Normalize the leading pair to exactly 32 significant bits.
	Init(w.hi, 0, HiWords)
	w.hi[0], w.hi[1] = w.mod[n-2], w.mod[n-1]
	shift := BitLen(w.hi, 2) - 32
	Shr(w.hi, shift, 2)

	Reciprocal(w.hiInv, w.hi, 2)
	Shr(w.hiInv, 1, 2)
	shift = (shift+15)%16 + 1
	Inc(w.hiInv, 2)
	if BitLen(w.hiInv, 2) > 32 {
		Shr(w.hiInv, 1, 2)
		shift--
	}

	w.shift = uint(shift)
	w.invLo = w.hiInv[0] & 0xffff
	w.invHi = w.hiInv[0] >> 16
}

// estimate returns a quotient digit for the reduction window whose top lane is
// top. The product is held complemented, so lanes are complemented back before
// being multiplied by the reciprocal halves. The arithmetic wraps at 32 bits.
func (w *Workspace) estimate(top int) uint32 {
	g := w.product
	a0 := half(g, top) ^ 0xffff
	a1 := half(g, top-1) ^ 0xffff
	a2 := half(g, top-2) ^ 0xffff
	lo, hi := w.invLo, w.invHi

	q := (a1*lo + 0x10000) >> 1
	q = (q + (a2*hi+hi)>>1 + 1) >> 16
	q = (q + (a1*hi)>>1 + (a0*lo)>>1 + 1) >> 14
	q = (q + hi*a0*2) >> w.shift
	return min(q, 0xffff)
}
