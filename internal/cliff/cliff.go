// Package cliff wraps the git-cliff changelog generator. The tool is treated
// as a black box with a fixed invocation contract: it regenerates the full
// changelog anchored at the release tag, and emits the unreleased section
// body for downstream transformation.
package cliff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an external command in a working directory and returns its
// stdout. It exists so tests can substitute canned generator output without
// invoking a real binary.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w\nstderr: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Generator invokes git-cliff in the project directory.
type Generator struct {
	Path    string // git-cliff binary; resolved against PATH
	Dir     string // project working directory
	Verbose bool
	Runner  Runner // nil means ExecRunner
}

func (g *Generator) runner() Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return ExecRunner{}
}

// Validate checks that the generator binary is invocable. A missing binary is
// fatal for the whole pipeline, so this runs before any file is modified.
func (g *Generator) Validate() error {
	cmd := exec.Command(g.Path, "--version")
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("git-cliff not found at %q: %w", g.Path, err)
	}
	if g.Verbose {
		fmt.Fprintf(os.Stderr, "[cliff] version: %s", string(out))
	}
	return nil
}

// Generate regenerates the full changelog anchored at version, writing it to
// output (a path relative to the project directory is resolved by the tool).
func (g *Generator) Generate(ctx context.Context, version, output string) error {
	if g.Verbose {
		fmt.Fprintf(os.Stderr, "[cliff] generating %s at tag %s\n", output, version)
	}
	if _, err := g.runner().Run(ctx, g.Dir, g.Path, "--tag", version, "--output", output); err != nil {
		return fmt.Errorf("generating changelog: %w", err)
	}
	return nil
}

// Unreleased returns the unreleased section body for version with its top
// header stripped. The text may still contain the generator's inline
// ordering markers; callers strip those before further processing.
func (g *Generator) Unreleased(ctx context.Context, version string) (string, error) {
	if g.Verbose {
		fmt.Fprintf(os.Stderr, "[cliff] extracting unreleased section for %s\n", version)
	}
	out, err := g.runner().Run(ctx, g.Dir, g.Path, "--tag", version, "--unreleased", "--strip", "header")
	if err != nil {
		return "", fmt.Errorf("extracting unreleased changelog: %w", err)
	}
	return string(out), nil
}
