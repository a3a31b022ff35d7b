package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := fmt.Fprint(w, s)
		return err
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, WriteAtomic(path, 0o644, writeString("hello world")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteAtomicOverwrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, WriteAtomic(path, 0o644, writeString("first")))
	require.NoError(t, WriteAtomic(path, 0o644, writeString("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteAtomicKeepsOldFileOnFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, WriteAtomic(path, 0o644, writeString("original")))

	boom := errors.New("boom")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be cleaned up")
}

func TestWriteAtomicInvalidDir(t *testing.T) {
	t.Parallel()
	err := WriteAtomic("/nonexistent/dir/report.txt", 0o644, writeString("x"))
	assert.Error(t, err)
}
