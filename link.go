package binstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// LinkKind classifies a working-tree path's relationship to the store.
type LinkKind int

const (
	// Untracked: the path does not exist.
	Untracked LinkKind = iota
	// Material: an ordinary file (or a symlink pointing outside the store)
	// holding directly editable content.
	Material
	// Linked: a symlink whose target lives inside the store root.
	Linked
)

func (k LinkKind) String() string {
	switch k {
	case Untracked:
		return "untracked"
	case Material:
		return "material"
	case Linked:
		return "linked"
	}
	return "unknown"
}

// LinkState is the resolved state of one path. Digest is set only for
// Linked and names the blob the symlink points at, whether or not that
// blob currently exists in the store.
type LinkState struct {
	Kind   LinkKind
	Digest string
}

// ResolveLink inspects path and classifies it against storeRoot. Only a
// single link hop is examined: a symlink is Linked when its target's
// parent directory equals the store root, Material otherwise. A dangling
// store link still resolves as Linked; callers handle the missing blob.
func ResolveLink(path, storeRoot string) (LinkState, error) {
	fi, err := lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LinkState{Kind: Untracked}, nil
		}
		return LinkState{}, fmt.Errorf("lstat %s: %w", path, err)
	}

	if fi.Mode()&os.ModeSymlink == 0 {
		return LinkState{Kind: Material}, nil
	}

	target, err := readlink(path)
	if err != nil {
		return LinkState{}, fmt.Errorf("readlink %s: %w", path, err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}

	if filepath.Clean(filepath.Dir(target)) != filepath.Clean(storeRoot) {
		return LinkState{Kind: Material}, nil
	}
	return LinkState{Kind: Linked, Digest: filepath.Base(target)}, nil
}
