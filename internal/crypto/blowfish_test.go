package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Эталонные векторы Blowfish (Eric Young) с половинами блока в порядке
// little-endian, как их хранит Westwood.
func TestBlowfishCipher_WestwoodWordOrder(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		plain  string
		cipher string
	}{
		{"zero key", "0000000000000000", "0000000000000000", "4597f94e78dd9861"},
		{"ones key", "ffffffffffffffff", "ffffffffffffffff", "d56f86518acb5eb8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, _ := hex.DecodeString(tt.key)
			data, _ := hex.DecodeString(tt.plain)

			c, err := NewBlowfishCipher(key)
			require.NoError(t, err)

			require.NoError(t, c.Encrypt(data, 0, len(data)))
			assert.Equal(t, tt.cipher, hex.EncodeToString(data))

			require.NoError(t, c.Decrypt(data, 0, len(data)))
			assert.Equal(t, tt.plain, hex.EncodeToString(data))
		})
	}
}

func TestBlowfishCipher_RoundTripWithOffset(t *testing.T) {
	c, err := NewBlowfishCipher(benchKey)
	require.NoError(t, err)

	data := make([]byte, 44)
	for i := range data {
		data[i] = byte(i * 7)
	}
	original := bytes.Clone(data)

	require.NoError(t, c.Encrypt(data, 4, 32))
	assert.Equal(t, original[:4], data[:4], "bytes before offset must stay intact")
	assert.Equal(t, original[36:], data[36:], "bytes after the range must stay intact")
	assert.NotEqual(t, original[4:36], data[4:36])

	require.NoError(t, c.Decrypt(data, 4, 32))
	assert.Equal(t, original, data)
}

func TestBlowfishCipher_Errors(t *testing.T) {
	_, err := NewBlowfishCipher(nil)
	require.Error(t, err)

	c, err := NewBlowfishCipher(benchKey)
	require.NoError(t, err)

	data := make([]byte, 16)
	assert.Error(t, c.Encrypt(data, 0, 12), "size must be a multiple of 8")
	assert.Error(t, c.Decrypt(data, 8, 16), "range must fit in data")
	assert.Error(t, c.Decrypt(data, -8, 8))
}

func TestBlowfishCipher_AcceptsDerivedKey(t *testing.T) {
	src := make([]byte, 80)
	key, err := BlowfishKey(src)
	require.NoError(t, err)

	_, err = NewBlowfishCipher(key)
	require.NoError(t, err, "56-byte key is the Blowfish maximum")
}
