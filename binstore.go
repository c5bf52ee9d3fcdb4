package binstore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aweris/binstore/internal/git"
)

// GitBridge is the slice of the underlying version-control system the
// engine needs: staging a path, restoring it to its last committed state,
// and asking whether its working-tree status shows a type change.
type GitBridge interface {
	Stage(path string) error
	RestoreToCommitted(path string) error
	TypeChanged(path string) (bool, error)
}

// Action names what happened to one path during a batch operation.
type Action string

const (
	ActionStored    Action = "stored"
	ActionUnlocked  Action = "unlocked"
	ActionDiscarded Action = "discarded"
	ActionStaged    Action = "staged" // passed through to plain git staging
	ActionSkipped   Action = "skipped"
	ActionFailed    Action = "failed"
)

// Result is the per-path outcome of a batch operation.
type Result struct {
	Path   string
	Action Action
	Note   string
	Err    error
}

// Engine performs the Store, Unlock and Discard transitions against one
// store root. Paths are processed sequentially; each path's transition is
// individually crash-safe via its backup, but the batch as a whole is not
// transactional. A signature conflict aborts the remaining batch and is
// returned as the batch error alongside the results so far.
type Engine struct {
	store  *blobStore
	git    GitBridge
	log    *zap.Logger
	tmpDir string
}

// Open creates an engine bound to storeDir. The store directory itself is
// created lazily by Store (or explicitly by Init); Unlock and Discard
// require it to exist already.
func Open(storeDir string, opts ...Option) (*Engine, error) {
	if storeDir == "" {
		return nil, fmt.Errorf("%w: empty store dir", ErrStoreUnavailable)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	bridge := options.Git
	if bridge == nil {
		bridge = git.NewCLI("")
	}

	return &Engine{
		store:  &blobStore{root: storeDir},
		git:    bridge,
		log:    options.Logger,
		tmpDir: options.TempDir,
	}, nil
}

// StoreRoot returns the store directory the engine operates on.
func (e *Engine) StoreRoot() string { return e.store.root }

// Init creates the store root if it is absent.
func (e *Engine) Init() error { return e.store.EnsureRoot() }

// List returns every blob currently in the store.
func (e *Engine) List() ([]BlobInfo, error) { return e.store.List() }

// Store moves each path's content into the blob store and replaces the
// path with a symlink to its blob, staging the link in git. Directories
// are descended into; text files and symlinks pointing outside the store
// are handed to plain git staging instead of entering the store.
func (e *Engine) Store(paths []string) ([]Result, error) {
	if err := e.store.EnsureRoot(); err != nil {
		return nil, err
	}

	expanded, results := e.expandPaths(paths)
	for _, path := range expanded {
		res, err := e.storeOne(path)
		results = append(results, res)
		if err != nil {
			// Conflict: fail fast, remaining paths untouched.
			return results, err
		}
	}
	return results, nil
}

// expandPaths flattens directory arguments into their regular files.
// Symlinked directories are not traversed. Missing paths become skip
// results so the rest of the batch proceeds.
func (e *Engine) expandPaths(paths []string) ([]string, []Result) {
	var expanded []string
	var results []Result
	for _, path := range paths {
		fi, err := lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				results = append(results, Result{Path: path, Action: ActionSkipped, Note: "no such file"})
			} else {
				results = append(results, Result{Path: path, Action: ActionFailed, Err: err})
			}
			continue
		}
		if !fi.IsDir() {
			expanded = append(expanded, path)
			continue
		}
		walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				expanded = append(expanded, p)
			}
			return nil
		})
		if walkErr != nil {
			results = append(results, Result{Path: path, Action: ActionFailed, Err: walkErr})
		}
	}
	return expanded, results
}

func (e *Engine) storeOne(path string) (Result, error) {
	ls, err := ResolveLink(path, e.store.root)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}

	switch ls.Kind {
	case Untracked:
		return Result{Path: path, Action: ActionSkipped, Note: "no such file"}, nil
	case Material:
		fi, err := lstat(path)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			// A real symlink that was never ours: stage it as-is.
			if err := e.git.Stage(path); err != nil {
				return Result{Path: path, Action: ActionFailed, Err: err}, nil
			}
			return Result{Path: path, Action: ActionStaged, Note: "symlink"}, nil
		}
		bin, err := isBinaryFile(path)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		if !bin {
			if err := e.git.Stage(path); err != nil {
				return Result{Path: path, Action: ActionFailed, Err: err}, nil
			}
			return Result{Path: path, Action: ActionStaged, Note: "text"}, nil
		}
	}

	digest, err := DigestFile(path)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}

	if ls.Kind == Linked && ls.Digest == digest {
		return Result{Path: path, Action: ActionSkipped, Note: "already stored"}, nil
	}

	st, err := os.Stat(path)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}

	if e.store.Exists(digest) {
		size, err := e.store.SizeOf(digest)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		if size != st.Size() {
			conflict := &SignatureConflictError{Path: path, Digest: digest, StoreSize: size, PathSize: st.Size()}
			return Result{Path: path, Action: ActionFailed, Err: conflict}, conflict
		}
		if ls.Kind == Linked {
			return Result{Path: path, Action: ActionSkipped, Note: "already stored"}, nil
		}
	}

	if err := e.transition(path, digest); err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}

	e.log.Debug("stored", zap.String("path", path), zap.String("digest", digest), zap.Int64("size", st.Size()))
	return Result{Path: path, Action: ActionStored, Note: digest}, nil
}

// transition swaps path for a symlink to its blob. The backup taken up
// front guarantees the path is observable only as the original content or
// as a valid link, never in between.
func (e *Engine) transition(path, digest string) error {
	bk, err := newBackup(path, digest)
	if err != nil {
		return err
	}

	if err := e.store.Put(digest, path); err != nil {
		return rollback(bk, err)
	}
	if err := removeOp(path); err != nil {
		return rollback(bk, fmt.Errorf("remove %s: %w", path, err))
	}
	if err := symlinkOp(e.store.Path(digest), path); err != nil {
		return rollback(bk, fmt.Errorf("link %s: %w", path, err))
	}
	if err := e.git.Stage(path); err != nil {
		removeOp(path)
		return rollback(bk, fmt.Errorf("stage %s: %w", path, err))
	}

	if err := bk.Discard(); err != nil {
		e.log.Warn("backup left behind", zap.String("path", path), zap.Error(err))
	}
	return nil
}

func rollback(bk *backup, cause error) error {
	if rerr := bk.Restore(); rerr != nil {
		return fmt.Errorf("%v (rollback also failed: %w)", cause, rerr)
	}
	return cause
}

// Unlock converts Linked paths back to Material files: the blob's bytes
// are copied beside the path and moved over the symlink. The store and
// git are untouched; non-linked paths are silently skipped.
func (e *Engine) Unlock(paths []string) ([]Result, error) {
	if !e.store.RootExists() {
		return nil, fmt.Errorf("%w: %s", ErrStoreUninitialized, e.store.root)
	}

	var results []Result
	for _, path := range paths {
		results = append(results, e.unlockOne(path))
	}
	return results, nil
}

func (e *Engine) unlockOne(path string) Result {
	ls, err := ResolveLink(path, e.store.root)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}
	}
	if ls.Kind != Linked {
		return Result{Path: path, Action: ActionSkipped, Note: "not a store link"}
	}

	tmp := filepath.Join(filepath.Dir(path), ".tmp_"+ls.Digest)
	if err := copyFile(e.store.Path(ls.Digest), tmp); err != nil {
		return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("copy blob %s: %w", ls.Digest, err)}
	}
	// The copy inherits the blob's read-only mode; the working copy has to
	// be editable again.
	if err := chmodOp(tmp, 0o644); err != nil {
		removeOp(tmp)
		return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("unlock %s: %w", path, err)}
	}
	if err := renameOp(tmp, path); err != nil {
		removeOp(tmp)
		return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("unlock %s: %w", path, err)}
	}

	e.log.Debug("unlocked", zap.String("path", path), zap.String("digest", ls.Digest))
	return Result{Path: path, Action: ActionUnlocked, Note: ls.Digest}
}

// Discard throws away local modifications to each path and restores its
// committed state via git. Content whose digest is unknown to the store
// is first saved to a side location under the temp dir, so unlocked-and-
// edited files are never silently destroyed.
func (e *Engine) Discard(paths []string) ([]Result, error) {
	if !e.store.RootExists() {
		return nil, fmt.Errorf("%w: %s", ErrStoreUninitialized, e.store.root)
	}

	var results []Result
	for _, path := range paths {
		res, err := e.discardOne(path)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (e *Engine) discardOne(path string) (Result, error) {
	digest, err := DigestFile(path)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}

	ls, err := ResolveLink(path, e.store.root)
	if err != nil {
		return Result{Path: path, Action: ActionFailed, Err: err}, nil
	}
	if ls.Kind == Linked && ls.Digest == digest {
		return Result{Path: path, Action: ActionSkipped, Note: "already at committed state"}, nil
	}

	var note string
	if !e.store.Exists(digest) {
		// Either an unlocked-and-edited store file or a file that was never
		// ours. Git's type-change status tells the two apart.
		changed, err := e.git.TypeChanged(path)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		if !changed {
			return Result{Path: path, Action: ActionSkipped, Note: "not a store file"}, nil
		}
		saved := filepath.Join(e.tmpDir, filepath.Base(path)+"."+digest)
		if err := copyFile(path, saved); err != nil {
			return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("save edits: %w", err)}, nil
		}
		note = "edits saved to " + saved
		e.log.Info("saved edited content", zap.String("path", path), zap.String("saved", saved))
	} else {
		size, err := e.store.SizeOf(digest)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		st, err := os.Stat(path)
		if err != nil {
			return Result{Path: path, Action: ActionFailed, Err: err}, nil
		}
		if size != st.Size() {
			conflict := &SignatureConflictError{Path: path, Digest: digest, StoreSize: size, PathSize: st.Size()}
			return Result{Path: path, Action: ActionFailed, Err: conflict}, conflict
		}
	}

	if err := removeOp(path); err != nil {
		return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("remove %s: %w", path, err)}, nil
	}
	if err := e.git.RestoreToCommitted(path); err != nil {
		return Result{Path: path, Action: ActionFailed, Err: fmt.Errorf("restore %s: %w", path, err)}, nil
	}

	e.log.Debug("discarded", zap.String("path", path), zap.String("digest", digest))
	return Result{Path: path, Action: ActionDiscarded, Note: note}, nil
}
