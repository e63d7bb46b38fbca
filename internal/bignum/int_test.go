package bignum

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// u256Words: ширина uint256.Int в 32-битных словах.
const u256Words = 8

func toU256(x Int) *uint256.Int {
	var u uint256.Int
	for i := range 4 {
		u[i] = uint64(x[2*i]) | uint64(x[2*i+1])<<32
	}
	return &u
}

func fromU256(u *uint256.Int) Int {
	x := New(u256Words)
	for i := range 4 {
		x[2*i] = uint32(u[i])
		x[2*i+1] = uint32(u[i] >> 32)
	}
	return x
}

func randU256(r *rand.Rand) *uint256.Int {
	return &uint256.Int{r.Uint64(), r.Uint64(), r.Uint64(), r.Uint64()}
}

func toBig(x Int) *big.Int {
	b := make([]byte, 4*len(x))
	for i, w := range x {
		j := len(b) - 4*i
		b[j-1] = byte(w)
		b[j-2] = byte(w >> 8)
		b[j-3] = byte(w >> 16)
		b[j-4] = byte(w >> 24)
	}
	return new(big.Int).SetBytes(b)
}

func fromBig(v *big.Int, words int) Int {
	b := v.FillBytes(make([]byte, 4*words))
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	x := New(words)
	SetBytesLE(x, b, words)
	return x
}

func randBig(r *rand.Rand, bits int) *big.Int {
	b := make([]byte, (bits+7)/8)
	for i := range b {
		b[i] = byte(r.Uint32())
	}
	v := new(big.Int).SetBytes(b)
	return v.Rsh(v, uint(8*len(b)-bits))
}

func TestWordLenBitLen(t *testing.T) {
	tests := []struct {
		name    string
		words   Int
		wordLen int
		bitLen  int
	}{
		{"zero", Int{0, 0, 0, 0}, 0, 0},
		{"one", Int{1, 0, 0, 0}, 1, 1},
		{"top bit of word 0", Int{0x80000000, 0, 0, 0}, 1, 32},
		{"word 1", Int{0, 1, 0, 0}, 2, 33},
		{"sparse", Int{0xffffffff, 0, 0x10, 0}, 3, 69},
		{"full", Int{0, 0, 0, 0xffffffff}, 4, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wordLen, WordLen(tt.words, len(tt.words)))
			assert.Equal(t, tt.bitLen, BitLen(tt.words, len(tt.words)))
		})
	}
}

func TestInitAndMove(t *testing.T) {
	x := Int{1, 2, 3, 4}
	Init(x, 7, 4)
	assert.Equal(t, Int{7, 0, 0, 0}, x)

	// Перекрывающиеся операнды ведут себя как memmove.
	y := Int{1, 2, 3, 4, 5, 6}
	Move(y[1:], y, 4)
	assert.Equal(t, Int{1, 1, 2, 3, 4, 6}, y)
}

func TestCmp(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		a, b := randU256(r), randU256(r)
		if r.IntN(4) == 0 {
			b.Set(a)
		}
		assert.Equal(t, a.Cmp(b), Cmp(fromU256(a), fromU256(b), u256Words))
	}
}

func TestIncDecWrap(t *testing.T) {
	x := New(u256Words)
	Dec(x, u256Words)
	for _, w := range x {
		require.Equal(t, uint32(0xffffffff), w, "decrementing zero must wrap to all ones")
	}
	Inc(x, u256Words)
	assert.Zero(t, WordLen(x, u256Words))

	r := rand.New(rand.NewPCG(3, 4))
	for range 200 {
		u := randU256(r)
		if r.IntN(3) == 0 {
			// Длинная цепочка переносов.
			u[0], u[1] = ^uint64(0), ^uint64(0)
		}
		x := fromU256(u)
		Inc(x, u256Words)
		assert.True(t, new(uint256.Int).AddUint64(u, 1).Eq(toU256(x)))

		x = fromU256(u)
		Dec(x, u256Words)
		assert.True(t, new(uint256.Int).SubUint64(u, 1).Eq(toU256(x)))
	}
}

func TestNotNeg(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for range 200 {
		u := randU256(r)

		x := fromU256(u)
		Not(x, u256Words)
		assert.True(t, new(uint256.Int).Not(u).Eq(toU256(x)))

		x = fromU256(u)
		Neg(x, u256Words)
		assert.True(t, new(uint256.Int).Neg(u).Eq(toU256(x)))
	}

	zero := New(u256Words)
	Neg(zero, u256Words)
	assert.Zero(t, WordLen(zero, u256Words))
}

func TestShifts(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for n := 0; n < 256; n++ {
		u := randU256(r)

		x := fromU256(u)
		Shl(x, n, u256Words)
		assert.True(t, new(uint256.Int).Lsh(u, uint(n)).Eq(toU256(x)), "shl %d", n)

		x = fromU256(u)
		Shr(x, n, u256Words)
		assert.True(t, new(uint256.Int).Rsh(u, uint(n)).Eq(toU256(x)), "shr %d", n)
	}
}

// Регрессия: сдвиг на кратное 32 обязан обнулять все освободившиеся слова,
// включая слово 0 (влево) и старшее слово (вправо).
func TestShiftWholeWordsZeroesVacated(t *testing.T) {
	for _, limit := range []int{HiWords, u256Words, KeyWords} {
		for words := 1; words < limit; words++ {
			x := New(limit)
			for i := range x {
				x[i] = 0xffffffff
			}
			Shl(x, 32*words, limit)
			for i := range x {
				if i < words {
					require.Zero(t, x[i], "shl limit=%d words=%d: word %d", limit, words, i)
				} else {
					require.Equal(t, uint32(0xffffffff), x[i], "shl limit=%d words=%d: word %d", limit, words, i)
				}
			}

			for i := range x {
				x[i] = 0xffffffff
			}
			Shr(x, 32*words, limit)
			for i := range x {
				if i >= limit-words {
					require.Zero(t, x[i], "shr limit=%d words=%d: word %d", limit, words, i)
				} else {
					require.Equal(t, uint32(0xffffffff), x[i], "shr limit=%d words=%d: word %d", limit, words, i)
				}
			}
		}

		x := New(limit)
		x[0] = 1
		Shl(x, 32*limit, limit)
		assert.Zero(t, WordLen(x, limit), "shifting out every word leaves zero")
	}
}

func TestSub(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 10))
	for range 300 {
		a, b := randU256(r), randU256(r)
		borrowIn := uint32(r.IntN(2))

		dst := New(u256Words)
		borrow := Sub(dst, fromU256(a), fromU256(b), borrowIn, u256Words)

		want := new(uint256.Int).Sub(a, b)
		want.SubUint64(want, uint64(borrowIn))
		assert.True(t, want.Eq(toU256(dst)))

		// Заём возникает, если a < b + borrowIn.
		wantBorrow := a.Lt(b) || (borrowIn == 1 && a.Eq(b))
		assert.Equal(t, wantBorrow, borrow == 1)
	}
}

func TestSubInPlace(t *testing.T) {
	a := Int{5, 0, 0, 1}
	b := Int{6, 0, 0, 0}
	borrow := Sub(a, a, b, 0, 4)
	assert.Zero(t, borrow)
	assert.Equal(t, Int{0xffffffff, 0xffffffff, 0xffffffff, 0}, a)
}

func TestBytesLE(t *testing.T) {
	x := New(HiWords)
	x[3] = 0xdeadbeef
	SetBytesLE(x, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, HiWords)
	assert.Equal(t, Int{0x04030201, 0x05, 0, 0}, x)

	out := make([]byte, 6)
	FillBytesLE(out, x)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x00}, out)

	assert.Panics(t, func() { SetBytesLE(x, make([]byte, 17), HiWords) })
}
