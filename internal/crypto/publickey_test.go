package crypto

import (
	"encoding/hex"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixkey/internal/bignum"
	"github.com/udisondev/mixkey/internal/constants"
)

const productionModulus = "51bcda086d39fce4565160d651713fa2e8aa54fa6682b04aabdd0e6af8b0c1e6d1fb4f3daa437f15"

// intFromHex разворачивает big-endian hex в Int заданной ширины.
func intFromHex(t *testing.T, s string, words int) bignum.Int {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	slices.Reverse(b)
	x := bignum.New(words)
	bignum.SetBytesLE(x, b, words)
	return x
}

// Каждый символ ключевой строки обязан декодироваться таблицей, а
// base64-алфавит, построенный из неё, обязан давать те же байты.
func TestKeyEncodingMatchesCharTable(t *testing.T) {
	s := constants.ModulusKeyString
	require.Zero(t, len(s)%4)

	var manual []byte
	for i := 0; i < len(s); i += 4 {
		var v uint32
		for _, c := range []byte(s[i : i+4]) {
			require.Less(t, c, byte(0x80), "symbol %q", c)
			require.GreaterOrEqual(t, charTable[c], int8(0), "symbol %q", c)
			v = v<<6 | uint32(charTable[c])
		}
		manual = append(manual, byte(v>>16), byte(v>>8), byte(v))
	}

	decoded, err := keyEncoding.DecodeString(s)
	require.NoError(t, err)
	assert.Equal(t, manual, decoded)
	assert.Len(t, decoded, 42)
}

func TestAlphabetRejectsBrokenTable(t *testing.T) {
	dup := charTable
	dup['!'] = 5
	assert.Panics(t, func() { alphabet(dup) })

	missing := charTable
	missing['/'] = -1
	assert.Panics(t, func() { alphabet(missing) })

	assert.NotPanics(t, func() { alphabet(charTable) })
}

func TestDefaultPublicKey(t *testing.T) {
	k, err := DefaultPublicKey()
	require.NoError(t, err)

	assert.Zero(t, bignum.Cmp(intFromHex(t, productionModulus, bignum.KeyWords), k.Modulus, bignum.KeyWords))
	assert.Equal(t, 318, k.BitLen)
	assert.Equal(t, uint32(constants.PublicExponent), k.Exponent[0])
	assert.Equal(t, 1, bignum.WordLen(k.Exponent, bignum.KeyWords))

	a, err := k.BlockSize()
	require.NoError(t, err)
	assert.Equal(t, 39, a)

	n, err := k.SourceSize()
	require.NoError(t, err)
	assert.Equal(t, constants.KeySourceSize, n)

	again, err := DefaultPublicKey()
	require.NoError(t, err)
	assert.Same(t, k, again, "key string must be decoded once")
}

func TestParseModulus(t *testing.T) {
	tests := []struct {
		name    string
		der     string
		limit   int
		want    bignum.Int
		wantErr error
	}{
		{
			name:  "short form",
			der:   "0203123456",
			limit: 2,
			want:  bignum.Int{0x00123456, 0},
		},
		{
			name:  "long form",
			der:   "02810401020304",
			limit: 2,
			want:  bignum.Int{0x01020304, 0},
		},
		{
			name:  "leading zero keeps value positive",
			der:   "020500ffeeddcc",
			limit: 2,
			want:  bignum.Int{0xffeeddcc, 0},
		},
		{
			name:  "sign extension",
			der:   "020180",
			limit: 2,
			want:  bignum.Int{0xffffff80, 0xffffffff},
		},
		{name: "wrong tag", der: "0303123456", limit: 2, wantErr: ErrModulusDecode},
		{name: "empty", der: "", limit: 2, wantErr: ErrModulusDecode},
		{name: "indefinite length", der: "0280", limit: 2, wantErr: ErrModulusDecode},
		{name: "truncated length", der: "028201", limit: 2, wantErr: ErrModulusDecode},
		{name: "truncated content", der: "02051234", limit: 2, wantErr: ErrModulusDecode},
		{name: "too large", der: "0209010203040506070809", limit: 2, wantErr: ErrModulusTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			der, err := hex.DecodeString(tt.der)
			require.NoError(t, err)

			got, err := ParseModulus(der, tt.limit)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrModulusDecode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPublicKey_Errors(t *testing.T) {
	_, err := NewPublicKey("Ai!!")
	require.ErrorIs(t, err, ErrModulusDecode)

	tooLarge := append([]byte{0x02, 0x82, 0x01, 0x01}, make([]byte, 257)...)
	_, err = NewPublicKey(keyEncoding.EncodeToString(tooLarge))
	require.ErrorIs(t, err, ErrModulusTooLarge)
	assert.True(t, errors.Is(err, ErrModulusDecode))

	// Отрицательный INTEGER: старший бит содержимого установлен.
	for _, der := range [][]byte{{0x02, 0x01, 0x80}, {0x02, 0x02, 0xff, 0x01}, {0x02, 0x05, 0x80, 0, 0, 0, 1}} {
		_, err = NewPublicKey(keyEncoding.EncodeToString(der))
		require.ErrorIs(t, err, ErrModulusDecode, "%x", der)
		assert.False(t, errors.Is(err, ErrInputLength))
	}
}
