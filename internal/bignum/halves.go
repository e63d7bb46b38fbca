package bignum

// Reduction works on 16-bit lanes at arbitrary lane offsets, so a window may
// start in the middle of a word. These helpers address an Int as a sequence
// of half-words, lane 2i being the low half of word i.

func half(x Int, i int) uint32 {
	return x[i>>1] >> (uint(i&1) << 4) & 0xffff
}

func setHalf(x Int, i int, v uint32) {
	s := uint(i&1) << 4
	x[i>>1] = x[i>>1]&^(0xffff<<s) | (v&0xffff)<<s
}

// subHalves subtracts n lanes of b from the window of a starting at lane aOff
// and stores the difference in the window of dst starting at lane dOff.
// Borrow is detected from bit 16 of each lane difference.
func subHalves(dst Int, dOff int, a Int, aOff int, b Int, borrow uint32, n int) uint32 {
	for i := 0; i < n; i++ {
		d := half(a, aOff+i) - half(b, i) - borrow
		setHalf(dst, dOff+i, d)
		borrow = d >> 16 & 1
	}
	return borrow
}
