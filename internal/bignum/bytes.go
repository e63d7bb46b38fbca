package bignum

// SetBytesLE zeroes the first limit words of x and loads b into it as a
// little-endian number. len(b) must not exceed 4*limit.
func SetBytesLE(x Int, b []byte, limit int) {
	if len(b) > 4*limit {
		panic("bignum: byte slice exceeds capacity")
	}
	Init(x, 0, limit)
	for i, v := range b {
		x[i/4] |= uint32(v) << uint(8*(i%4))
	}
}

// FillBytesLE writes the low len(b) bytes of x into b, little-endian.
func FillBytesLE(b []byte, x Int) {
	for i := range b {
		b[i] = byte(x[i/4] >> uint(8*(i%4)))
	}
}
