package bignum

// Workspace holds the scratch state of one modular exponentiation: the
// reduction context for the current modulus and the product buffers. A
// Workspace must not be shared between goroutines; reuse it across calls or
// take one per call.
type Workspace struct {
	mod     Int
	limit   int
	bitLen  int
	halfLen int

	hi    Int
	hiInv Int
	shift uint
	invLo uint32
	invHi uint32

	product Int
	square  Int
}

// NewWorkspace allocates a zeroed Workspace sized for KeyWords operands.
func NewWorkspace() *Workspace {
	return &Workspace{
		mod:     New(KeyWords),
		hi:      New(HiWords),
		hiInv:   New(HiWords),
		product: New(ProductWords),
		square:  New(KeyWords),
	}
}

// Clear zeroes all scratch state.
func (w *Workspace) Clear() {
	clear(w.mod)
	clear(w.hi)
	clear(w.hiInv)
	clear(w.product)
	clear(w.square)
	w.limit, w.bitLen, w.halfLen = 0, 0, 0
	w.shift, w.invLo, w.invHi = 0, 0, 0
}

// MulMod stores a*b mod m in dst, where m is the modulus given to Reset.
// Operands span the working limit established by Reset.
func (w *Workspace) MulMod(dst, a, b Int) {
	limit := w.limit
	g := w.product

	Mul(g, a, b, limit)
	g[2*limit] = 0

	n := WordLen(g, 2*limit+1) * 2
	if n >= w.halfLen {
		// Hold the product as -(p+1) so that adding q*m subtracts it.
		Inc(g, 2*limit+1)
		Neg(g, 2*limit+1)

		lo := n + 1 - w.halfLen
		top := n + 1
		for range n + 1 - w.halfLen {
			lo--
			top--
			q := w.estimate(top)
			if q == 0 {
				continue
			}
			MulWord(g, lo, w.mod, q, w.halfLen)

			// Sign bit clear above the window: q overshot by one.
			if half(g, top)&0x8000 == 0 {
				if subHalves(g, lo, g, lo, w.mod, 0, w.halfLen) != 0 {
					setHalf(g, top, half(g, top)-1)
				}
			}
		}

		Neg(g, limit)
		Dec(g, limit)
		// Lanes above the modulus held the sign of the remainder.
		for i := w.halfLen; i < 2*limit; i++ {
			setHalf(g, i, 0)
		}
	}
	Move(dst, g, limit)
}
