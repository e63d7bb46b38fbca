package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"testing"
)

// ErrSimulated возвращают подставные reader'ы и writer'ы в тестах путей ошибок.
var ErrSimulated = errors.New("simulated I/O failure")

// AssertUint16LE проверяет, что uint16 значение (little-endian) по смещению соответствует ожидаемому.
func AssertUint16LE(t testing.TB, expected uint16, buf []byte, offset int) {
	t.Helper()

	if len(buf) < offset+2 {
		t.Fatalf("buffer too short: need %d bytes for uint16 at offset %d, got %d",
			offset+2, offset, len(buf))
	}

	actual := binary.LittleEndian.Uint16(buf[offset:])
	if actual != expected {
		t.Fatalf("uint16 mismatch at offset %d: expected 0x%04X, got 0x%04X", offset, expected, actual)
	}
}

// AssertUint32LE проверяет, что uint32 значение (little-endian) по смещению соответствует ожидаемому.
func AssertUint32LE(t testing.TB, expected uint32, buf []byte, offset int) {
	t.Helper()

	if len(buf) < offset+4 {
		t.Fatalf("buffer too short: need %d bytes for uint32 at offset %d, got %d",
			offset+4, offset, len(buf))
	}

	actual := binary.LittleEndian.Uint32(buf[offset:])
	if actual != expected {
		t.Fatalf("uint32 mismatch at offset %d: expected 0x%08X, got 0x%08X", offset, expected, actual)
	}
}

// AssertBytesEqual сравнивает срезы и при расхождении печатает оба в hex.
func AssertBytesEqual(t testing.TB, expected, actual []byte, msg string) {
	t.Helper()

	if !bytes.Equal(expected, actual) {
		t.Fatalf("%s: bytes mismatch\nexpected:\n%s\nactual:\n%s", msg, hex.Dump(expected), hex.Dump(actual))
	}
}
