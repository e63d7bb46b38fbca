package bignum

// Exp stores base^exp mod m in dst using a fresh Workspace.
func Exp(dst, base, exp, m Int, limit int) {
	NewWorkspace().Exp(dst, base, exp, m, limit)
}

// Exp stores base^exp mod m in dst by left-to-right square-and-multiply.
// The working length is the significant word count of m; base must fit in it.
// dst must not alias base. The workspace is cleared before returning.
func (w *Workspace) Exp(dst, base, exp, m Int, limit int) {
	defer w.Clear()

	Init(dst, 1, limit)
	n := WordLen(m, limit)
	w.Reset(m, n)

	eBits := BitLen(exp, n)
	if eBits == 0 {
		return
	}

	// The top exponent bit is consumed by starting from base.
	Move(dst, base, n)
	for i := eBits - 2; i >= 0; i-- {
		w.MulMod(w.square, dst, dst)
		if exp[i/32]>>uint(i%32)&1 != 0 {
			w.MulMod(dst, w.square, base)
		} else {
			Move(dst, w.square, n)
		}
	}
}
