package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubGit puts a fake git executable on PATH that runs the given shell
// body with the original arguments.
func stubGit(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "git"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestStagePassesPath(t *testing.T) {
	log := filepath.Join(t.TempDir(), "args.log")
	t.Setenv("GIT_STUB_LOG", log)
	stubGit(t, `echo "$@" > "$GIT_STUB_LOG"`)

	g := NewCLI("")
	require.NoError(t, g.Stage("assets/photo.png"))

	recorded, err := os.ReadFile(log)
	require.NoError(t, err)
	require.Equal(t, "add -- assets/photo.png", strings.TrimSpace(string(recorded)))
}

func TestRestoreToCommittedPassesPath(t *testing.T) {
	log := filepath.Join(t.TempDir(), "args.log")
	t.Setenv("GIT_STUB_LOG", log)
	stubGit(t, `echo "$@" > "$GIT_STUB_LOG"`)

	g := NewCLI("")
	require.NoError(t, g.RestoreToCommitted("assets/photo.png"))

	recorded, err := os.ReadFile(log)
	require.NoError(t, err)
	require.Equal(t, "checkout -- assets/photo.png", strings.TrimSpace(string(recorded)))
}

func TestTypeChanged(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{"typechange in worktree column", `echo " T photo.png"`, true},
		{"typechange in index column", `echo "T  photo.png"`, true},
		{"plain modification", `echo " M photo.png"`, false},
		{"clean path", `true`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubGit(t, tt.output)
			g := NewCLI("")
			got, err := g.TypeChanged("photo.png")
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTopLevelTrimsOutput(t *testing.T) {
	stubGit(t, `echo /home/user/repo`)
	g := NewCLI("")
	top, err := g.TopLevel()
	require.NoError(t, err)
	require.Equal(t, "/home/user/repo", top)
}

func TestCommandFailureIncludesOutput(t *testing.T) {
	stubGit(t, `echo "fatal: not a git repository"; exit 128`)
	g := NewCLI("")
	err := g.Stage("photo.png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a git repository")
}
