package binstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigestDeterministic(t *testing.T) {
	content := []byte("some payload\x00with binary bits")

	first, err := Digest(bytes.NewReader(content))
	require.NoError(t, err)
	second, err := Digest(bytes.NewReader(content))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, first, 32)
}

func TestDigestDistinguishesContent(t *testing.T) {
	a, err := Digest(bytes.NewReader([]byte("content a")))
	require.NoError(t, err)
	b, err := Digest(bytes.NewReader([]byte("content b")))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestDigestFileMatchesReader(t *testing.T) {
	content := []byte{0x00, 0x01, 0x02, 0xff, 0xfe}
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	fromFile, err := DigestFile(path)
	require.NoError(t, err)
	fromReader, err := Digest(bytes.NewReader(content))
	require.NoError(t, err)

	require.Equal(t, fromReader, fromFile)
}

func TestDigestFileFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.bin")
	link := filepath.Join(dir, "link.bin")
	require.NoError(t, os.WriteFile(target, []byte("linked content"), 0o644))
	require.NoError(t, os.Symlink(target, link))

	want, err := DigestFile(target)
	require.NoError(t, err)
	got, err := DigestFile(link)
	require.NoError(t, err)

	require.Equal(t, want, got)
}

func TestDigestFileMissing(t *testing.T) {
	_, err := DigestFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
