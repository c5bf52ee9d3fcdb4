package binstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLink(t *testing.T) {
	work := t.TempDir()
	store := t.TempDir()
	other := t.TempDir()

	blob := filepath.Join(store, "abc123")
	require.NoError(t, os.WriteFile(blob, []byte("blob"), 0o644))

	regular := filepath.Join(work, "regular.bin")
	require.NoError(t, os.WriteFile(regular, []byte("data"), 0o644))

	linked := filepath.Join(work, "linked.bin")
	require.NoError(t, os.Symlink(blob, linked))

	dangling := filepath.Join(work, "dangling.bin")
	require.NoError(t, os.Symlink(filepath.Join(store, "deadbeef"), dangling))

	foreign := filepath.Join(work, "foreign.bin")
	require.NoError(t, os.Symlink(filepath.Join(other, "elsewhere"), foreign))

	tests := []struct {
		name       string
		path       string
		wantKind   LinkKind
		wantDigest string
	}{
		{"missing path", filepath.Join(work, "nope.bin"), Untracked, ""},
		{"regular file", regular, Material, ""},
		{"store link", linked, Linked, "abc123"},
		{"dangling store link", dangling, Linked, "deadbeef"},
		{"foreign symlink", foreign, Material, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := ResolveLink(tt.path, store)
			require.NoError(t, err)
			require.Equal(t, tt.wantKind, state.Kind)
			require.Equal(t, tt.wantDigest, state.Digest)
		})
	}
}

func TestResolveLinkRelativeTarget(t *testing.T) {
	base := t.TempDir()
	store := filepath.Join(base, "store")
	require.NoError(t, os.MkdirAll(store, 0o755))

	// Link target relative to the path's own directory.
	link := filepath.Join(base, "file.bin")
	require.NoError(t, os.Symlink(filepath.Join("store", "cafe01"), link))

	state, err := ResolveLink(link, store)
	require.NoError(t, err)
	require.Equal(t, Linked, state.Kind)
	require.Equal(t, "cafe01", state.Digest)
}

func TestResolveLinkSingleHop(t *testing.T) {
	base := t.TempDir()
	store := filepath.Join(base, "store")
	require.NoError(t, os.MkdirAll(store, 0o755))

	blob := filepath.Join(store, "abc123")
	require.NoError(t, os.WriteFile(blob, []byte("blob"), 0o644))

	// middle is a store link; outer points at middle, not the store.
	middle := filepath.Join(base, "middle.bin")
	require.NoError(t, os.Symlink(blob, middle))
	outer := filepath.Join(base, "outer.bin")
	require.NoError(t, os.Symlink(middle, outer))

	state, err := ResolveLink(outer, store)
	require.NoError(t, err)
	require.Equal(t, Material, state.Kind)
}
