package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/trougnouf/cutover/internal/config"
	"github.com/trougnouf/cutover/internal/manifest"
	"github.com/trougnouf/cutover/internal/release"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the manifest's version_code to its version field",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().Bool("watch", false, "stay running and re-sync when the manifest changes")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	dir, err := resolveProjectDir(cmd)
	if err != nil {
		return err
	}
	manifestPath := cfg.Manifest
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(dir, manifestPath)
	}

	if err := syncOnce(manifestPath); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchManifest(cmd, manifestPath)
	}
	return nil
}

func syncOnce(manifestPath string) error {
	ver, code, err := release.SyncVersionCode(manifestPath)
	if err != nil {
		return err
	}
	fmt.Printf("Syncing version code: %s -> %d\n", ver, code)
	return nil
}

// watchManifest re-runs the sync whenever the manifest file changes, until
// interrupted. Sync failures in watch mode are warnings, not fatal: a
// half-saved manifest should not kill the watcher.
func watchManifest(cmd *cobra.Command, manifestPath string) error {
	w, err := manifest.NewWatcher(manifestPath)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", manifestPath, err)
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "[cutover] watching %s\n", manifestPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes:
			if err := syncOnce(manifestPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: sync failed: %v\n", err)
			}
		}
	}
}
