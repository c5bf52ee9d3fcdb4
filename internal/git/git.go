// Package git shells out to the git CLI for the few working-tree
// operations the store engine needs. Commands are synchronous; a failing
// command surfaces immediately with its combined output in the error.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// CLI runs git commands in a fixed directory. An empty dir means the
// process working directory.
type CLI struct {
	dir string
}

func NewCLI(dir string) *CLI {
	return &CLI{dir: dir}
}

func (g *CLI) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// Stage adds path to the index.
func (g *CLI) Stage(path string) error {
	_, err := g.run("add", "--", path)
	return err
}

// RestoreToCommitted resets path's working-tree content to its last
// committed state. For a store-managed path this recreates the committed
// symlink, even when the path was deleted first.
func (g *CLI) RestoreToCommitted(path string) error {
	_, err := g.run("checkout", "--", path)
	return err
}

// TypeChanged reports whether path's working-tree status shows a type
// change (symlink replaced by a regular file, or the reverse) against its
// last committed state.
func (g *CLI) TypeChanged(path string) (bool, error) {
	out, err := g.run("status", "--porcelain", "--", path)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}
		// Porcelain v1: two status columns, then a space and the path.
		if line[0] == 'T' || line[1] == 'T' {
			return true, nil
		}
	}
	return false, nil
}

// TopLevel returns the absolute path of the repository's working-tree
// root, used to derive a per-repository store directory name.
func (g *CLI) TopLevel() (string, error) {
	out, err := g.run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
