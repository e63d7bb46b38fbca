package bignum

// MulWord adds a*w into dst, where w is a 16-bit digit. The first n lanes of a
// are multiplied; the product is accumulated into dst starting at lane off and
// the final carry is added into lane off+n, which dst must have room for.
func MulWord(dst Int, off int, a Int, w uint32, n int) {
	var carry uint32
	for i := 0; i < n; i++ {
		carry = w*half(a, i) + half(dst, off+i) + carry
		setHalf(dst, off+i, carry)
		carry >>= 16
	}
	setHalf(dst, off+n, half(dst, off+n)+carry)
}

// Mul stores the 2*limit-word product a*b in dst. dst must not alias a or b.
func Mul(dst, a, b Int, limit int) {
	Init(dst, 0, 2*limit)
	for i := 0; i < 2*limit; i++ {
		MulWord(dst, i, a, half(b, i), 2*limit)
	}
}
