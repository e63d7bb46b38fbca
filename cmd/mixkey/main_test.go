package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/mixkey/internal/constants"
	"github.com/udisondev/mixkey/internal/crypto"
	"github.com/udisondev/mixkey/internal/mix"
	"github.com/udisondev/mixkey/internal/testutil"
)

// execute запускает CLI с конфигурацией по умолчанию и возвращает stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := cmd.ExecuteContext(testutil.ContextWithTimeout(t, constants.TestContextTimeout))
	return out.String(), err
}

func TestDerive(t *testing.T) {
	src := testutil.KeySource(7)
	want, err := crypto.BlowfishKey(src)
	require.NoError(t, err)

	out, err := execute(t, "derive", hex.EncodeToString(src))
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want)+"\n", out)

	out, err = execute(t, "derive", "--full", hex.EncodeToString(src))
	require.NoError(t, err)
	full := strings.TrimSpace(out)
	assert.Len(t, full, 2*78)
	assert.True(t, strings.HasPrefix(full, hex.EncodeToString(want)))
}

func TestDerive_Archive(t *testing.T) {
	path := testutil.WriteArchive(t, t.TempDir(), "local.mix", testutil.Fixtures.Files,
		mix.WriteOptions{Encrypt: true, KeySource: testutil.Fixtures.KeySource})
	want, err := crypto.BlowfishKey(testutil.Fixtures.KeySource)
	require.NoError(t, err)

	out, err := execute(t, "derive", "--archive", path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want), strings.TrimSpace(out))
}

func TestDerive_Errors(t *testing.T) {
	plain := testutil.WriteArchive(t, t.TempDir(), "plain.mix", testutil.Fixtures.Files, mix.WriteOptions{})

	_, err := execute(t, "derive")
	require.Error(t, err)

	_, err = execute(t, "derive", "zz")
	require.Error(t, err)

	_, err = execute(t, "derive", "0011")
	require.ErrorIs(t, err, crypto.ErrInputLength)

	_, err = execute(t, "derive", "--archive", plain)
	require.Error(t, err)

	_, err = execute(t, "derive", "--archive", plain, "00")
	require.Error(t, err)
}

func TestPackListExtract(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, f := range testutil.Fixtures.Files {
		p := filepath.Join(dir, f.Name)
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
		paths = append(paths, p)
	}

	archive := filepath.Join(dir, "out", "packed.mix")
	require.NoError(t, os.MkdirAll(filepath.Dir(archive), 0o755))
	_, err := execute(t, append([]string{"pack", "--encrypt", "--checksum", archive}, paths...)...)
	require.NoError(t, err)

	out, err := execute(t, "ls", "-n", "rules.ini", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "B1C3B238")
	assert.Contains(t, out, "rules.ini")
	assert.Contains(t, out, "encrypted=true checksum=true")

	dst := filepath.Join(dir, "rules.out")
	_, err = execute(t, "extract", archive, "RULES.INI", dst)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, testutil.Fixtures.Files[0].Data, got)

	// Каталог: поиск по всем архивам ниже него, вывод в stdout.
	out, err = execute(t, "extract", filepath.Dir(archive), "rules.ini", "-")
	require.NoError(t, err)
	assert.Equal(t, string(testutil.Fixtures.Files[0].Data), out)

	_, err = execute(t, "extract", archive, "missing.dat", "-")
	require.ErrorIs(t, err, mix.ErrNotFound)
}

func TestPack_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "pack", filepath.Join(dir, "x.mix"), filepath.Join(dir, "absent"))
	require.Error(t, err)

	a := filepath.Join(dir, "a", "same.dat")
	b := filepath.Join(dir, "b", "SAME.DAT")
	for _, p := range []string{a, b} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	out := filepath.Join(dir, "dup.mix")
	_, err = execute(t, "pack", out, a, b)
	require.ErrorIs(t, err, mix.ErrDuplicateID)
	assert.NoFileExists(t, out)
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	enc := testutil.WriteArchive(t, dir, "enc.mix", testutil.Fixtures.Files,
		mix.WriteOptions{Encrypt: true, KeySource: testutil.Fixtures.KeySource})
	testutil.WriteArchive(t, dir, "plain.mix", testutil.Fixtures.Files, mix.WriteOptions{})

	out, err := execute(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, enc)
	assert.Contains(t, strings.ToUpper(out), "2 ARCHIVES")

	key, err := crypto.BlowfishKey(testutil.Fixtures.KeySource)
	require.NoError(t, err)
	assert.Contains(t, out, hex.EncodeToString(key))
}

func TestRootCmd_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud"), 0o644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "derive", "00"})
	require.Error(t, cmd.Execute())
}
