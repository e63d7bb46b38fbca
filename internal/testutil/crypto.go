package testutil

import (
	"fmt"

	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/crypto"
)

// KeySource возвращает детерминированный источник ключа: байты seed, seed+1, ...
func KeySource(seed byte) []byte {
	src := make([]byte, constants.KeySourceSize)
	for i := range src {
		src[i] = seed + byte(i)
	}
	return src
}

// BlowfishEncrypt шифрует data in-place ключом, восстановленным из src.
// Возвращает зашифрованные данные для удобства использования в тестах.
// data должен быть кратен 8 байтам (Blowfish block size).
func BlowfishEncrypt(src, data []byte) ([]byte, error) {
	if len(data)%constants.BlowfishBlockSize != 0 {
		return nil, fmt.Errorf("data length must be multiple of 8, got %d", len(data))
	}

	key, err := crypto.BlowfishKey(src)
	if err != nil {
		return nil, fmt.Errorf("deriving key: %w", err)
	}
	cipher, err := crypto.NewBlowfishCipher(key)
	if err != nil {
		return nil, err
	}
	if err := cipher.Encrypt(data, 0, len(data)); err != nil {
		return nil, fmt.Errorf("blowfish encrypt: %w", err)
	}

	return data, nil
}

// PadToBlowfishBlock дополняет data до ближайшего кратного 8 байт нулями.
// Полезно для подготовки данных перед шифрованием Blowfish.
func PadToBlowfishBlock(data []byte) []byte {
	remainder := len(data) % constants.BlowfishBlockSize
	if remainder == 0 {
		return data
	}

	padding := constants.BlowfishBlockSize - remainder
	padded := make([]byte, len(data)+padding)
	copy(padded, data)

	return padded
}
