package release

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git is the version-control surface the pipeline needs: the current revision
// hash for the build descriptor, and staging of the touched files.
type Git interface {
	// Head returns the full 40-character hash of the current revision.
	Head(ctx context.Context) (string, error)
	// Add stages the given paths for the next commit.
	Add(ctx context.Context, paths ...string) error
}

// cliGit implements Git using the git CLI.
type cliGit struct {
	path string // git binary
	dir  string // working directory for git commands
}

// NewGit creates a Git backed by the git CLI in the given directory. A
// missing git binary surfaces on first use rather than at construction, so
// the version-code-only path keeps working without git installed.
func NewGit(path, dir string) Git {
	return &cliGit{path: path, dir: dir}
}

func (g *cliGit) Head(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, g.path, "-C", g.dir, "rev-parse", "HEAD")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *cliGit) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"-C", g.dir, "add"}, paths...)
	cmd := exec.CommandContext(ctx, g.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git add: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
