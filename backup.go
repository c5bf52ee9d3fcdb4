package binstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Filesystem hooks, overridable in tests to inject mid-transition faults.
var (
	copyFile  = defaultCopyFile
	renameOp  = os.Rename
	removeOp  = os.Remove
	symlinkOp = os.Symlink
	chmodOp   = os.Chmod
	lstat     = os.Lstat
	readlink  = os.Readlink
	mkdirAll  = os.MkdirAll
)

func defaultCopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// backup is a scoped safety copy taken before a risky transition. For a
// regular file it lives at .tmp_<tag> beside the path it protects; for a
// symlink only the target is recorded, so a rollback recreates the link
// itself rather than rematerializing the content behind it. Exactly one
// of Restore or Discard runs on every exit path, so no .tmp_* file
// survives a clean run and a failed run always gets the exact prior
// filesystem state back.
type backup struct {
	path       string
	tmp        string
	linkTarget string // set instead of tmp when the original was a symlink
}

// newBackup records path's current state aside. tag is the digest when
// known, the basename otherwise.
func newBackup(path, tag string) (*backup, error) {
	fi, err := lstat(path)
	if err != nil {
		return nil, fmt.Errorf("back up %s: %w", path, err)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		target, err := readlink(path)
		if err != nil {
			return nil, fmt.Errorf("back up %s: %w", path, err)
		}
		return &backup{path: path, linkTarget: target}, nil
	}

	tmp := filepath.Join(filepath.Dir(path), ".tmp_"+tag)
	if err := copyFile(path, tmp); err != nil {
		return nil, fmt.Errorf("back up %s: %w", path, err)
	}
	return &backup{path: path, tmp: tmp}, nil
}

// Restore puts the protected path back to its pre-transition state,
// replacing whatever is there now (including a partially created link).
func (b *backup) Restore() error {
	if b.linkTarget != "" {
		if err := removeOp(b.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("restore %s from backup: %w", b.path, err)
		}
		if err := symlinkOp(b.linkTarget, b.path); err != nil {
			return fmt.Errorf("restore %s from backup: %w", b.path, err)
		}
		return nil
	}
	if err := renameOp(b.tmp, b.path); err != nil {
		return fmt.Errorf("restore %s from backup: %w", b.path, err)
	}
	return nil
}

// Discard removes the backup after a successful transition.
func (b *backup) Discard() error {
	if b.linkTarget != "" {
		return nil
	}
	if err := removeOp(b.tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove backup %s: %w", b.tmp, err)
	}
	return nil
}
