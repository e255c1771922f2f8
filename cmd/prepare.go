package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trougnouf/cutover/internal/cliff"
	"github.com/trougnouf/cutover/internal/config"
	"github.com/trougnouf/cutover/internal/release"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Run the full release pipeline and stage the results",
	RunE:  runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}

	dir, err := resolveProjectDir(cmd)
	if err != nil {
		return err
	}

	gen := &cliff.Generator{Path: cfg.CliffPath, Dir: dir, Verbose: cfg.Verbose}
	if err := gen.Validate(); err != nil {
		return err
	}

	p := &release.Preparer{
		Config:  cfg,
		Dir:     dir,
		Cliff:   gen,
		Git:     release.NewGit(cfg.GitPath, dir),
		Verbose: cfg.Verbose,
	}

	staged, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Prepared release; staged %d files\n", len(staged))
	return nil
}

// resolveProjectDir turns the --dir flag into an absolute project root.
func resolveProjectDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}
	return abs, nil
}
