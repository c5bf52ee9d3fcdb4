// Package binstore keeps large binary files outside a git repository's
// object history. Each managed file lives in a flat, content-addressed
// store directory and the working tree holds only a symbolic link to it,
// so git tracks the link instead of the payload.
//
// A working-tree path is always in one of three states: Linked (a symlink
// into the store), Material (an ordinary, editable file) or Untracked.
// State is resolved from the filesystem on every call; nothing is cached.
//
// Basic usage:
//
//	eng, _ := binstore.Open("/data/binstore/myrepo")
//
//	// Move files into the store, replacing them with symlinks
//	results, _ := eng.Store([]string{"assets/photo.png"})
//
//	// Materialize a linked file for editing
//	eng.Unlock([]string{"assets/photo.png"})
//
//	// Throw local edits away and return to the committed link
//	eng.Discard([]string{"assets/photo.png"})
//
// Every risky transition copies the current content to a .tmp_* backup
// first and either completes or restores from it, so a path is never left
// half-converted.
package binstore
