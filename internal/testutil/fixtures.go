package testutil

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/mix"
)

// Fixtures содержит предварительно подготовленные тестовые данные
// для избежания дублирования в тестах.
var Fixtures = struct {
	// Источник ключа для зашифрованных архивов
	KeySource []byte

	// Небольшой набор файлов с известными именами
	Files []mix.File
}{
	KeySource: KeySource(0),
	Files: []mix.File{
		{Name: "rules.ini", Data: []byte("[General]\nGameSpeed=3\n")},
		{Name: "conquer.eng", Data: bytes.Repeat([]byte{0x42}, 300)},
		{Name: "mouse.shp", Data: []byte{0x01, 0x02, 0x03}},
		{Name: "empty.dat", Data: nil},
	},
}

// RandomFiles генерирует n файлов со случайным содержимым и именами file<i>.bin.
func RandomFiles(r *rand.Rand, n int) []mix.File {
	files := make([]mix.File, n)
	for i := range files {
		data := make([]byte, r.IntN(constants.TestEntryMaxSize))
		for j := range data {
			data[j] = byte(r.Uint32())
		}
		files[i] = mix.File{Name: fmt.Sprintf("file%d.bin", i), Data: data}
	}
	return files
}

// EncodeArchive собирает архив в памяти.
func EncodeArchive(tb testing.TB, files []mix.File, opts mix.WriteOptions) []byte {
	tb.Helper()

	var buf bytes.Buffer
	if err := mix.Write(&buf, files, opts); err != nil {
		tb.Fatalf("writing archive: %v", err)
	}
	return buf.Bytes()
}

// WriteArchive записывает архив в dir/name и возвращает путь к нему.
func WriteArchive(tb testing.TB, dir, name string, files []mix.File, opts mix.WriteOptions) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, EncodeArchive(tb, files, opts), 0o644); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
	return path
}
