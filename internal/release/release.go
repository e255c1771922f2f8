// Package release sequences a release preparation: derive the version and
// build code from the manifest, regenerate the changelogs, project the
// unreleased section into the store listing and the metainfo document, patch
// the build descriptor, and stage everything that was touched.
//
// Failures before the first write abort cleanly; later fatal failures leave
// the files written so far on disk. There is no rollback: the wrapping
// release process re-runs or reconciles by hand.
package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/trougnouf/cutover/internal/changelog"
	"github.com/trougnouf/cutover/internal/cliff"
	"github.com/trougnouf/cutover/internal/config"
	"github.com/trougnouf/cutover/internal/manifest"
	"github.com/trougnouf/cutover/internal/semver"
)

// ChangelogGenerator is the changelog-tool surface the pipeline depends on.
// *cliff.Generator implements it; tests substitute a stub with canned bodies.
type ChangelogGenerator interface {
	Generate(ctx context.Context, version, output string) error
	Unreleased(ctx context.Context, version string) (string, error)
}

// Preparer runs the release pipeline against one project directory.
type Preparer struct {
	Config  config.Config
	Dir     string // project root; relative config paths resolve against it
	Cliff   ChangelogGenerator
	Git     Git
	Runner  cliff.Runner // lock-command execution; nil means cliff.ExecRunner
	Verbose bool
	Log     io.Writer // nil means os.Stderr
}

// Run executes the pipeline and returns the staged file set: the touched
// paths that exist on disk, deduplicated. Any returned error is fatal; files
// already written remain on disk.
func (p *Preparer) Run(ctx context.Context) ([]string, error) {
	manifestPath := p.resolve(p.Config.Manifest)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	ver, err := semver.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Config.Manifest, err)
	}
	code := ver.BuildCode()
	p.logf("preparing release v%s (code %d)", ver, code)

	// The version and build-code fields are mandatory in the primary
	// manifest; a missing field here is fatal.
	patched, err := manifest.SetVersionCode(string(data), code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Config.Manifest, err)
	}
	if err := manifest.ValidateTOML(patched); err != nil {
		return nil, err
	}
	if err := os.WriteFile(manifestPath, []byte(patched), 0o644); err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}
	p.logf("updated version_code to %d in %s", code, p.Config.Manifest)

	if err := p.Cliff.Generate(ctx, ver.String(), p.Config.Changelog); err != nil {
		return nil, err
	}
	body, err := p.Cliff.Unreleased(ctx, ver.String())
	if err != nil {
		return nil, err
	}
	clean := changelog.StripMarkers(body)

	fastlaneFile, err := p.writeStoreListing(code, clean)
	if err != nil {
		return nil, err
	}

	metainfoPath := p.resolve(p.Config.Metainfo)
	if err := p.insertMetainfoRelease(metainfoPath, ver, clean); err != nil {
		return nil, err
	}

	flatpakPath := p.resolve(p.Config.FlatpakManifest)
	if err := p.patchDescriptor(ctx, flatpakPath, ver); err != nil {
		return nil, err
	}

	if err := p.regenerateLock(ctx); err != nil {
		return nil, err
	}

	staged := existingPaths(
		manifestPath,
		p.resolve(p.Config.Changelog),
		fastlaneFile,
		metainfoPath,
		flatpakPath,
	)
	if err := p.Git.Add(ctx, staged...); err != nil {
		return nil, err
	}
	p.logf("staged %d files", len(staged))
	return staged, nil
}

// writeStoreListing writes the cleaned unreleased body to the locale-keyed
// changelog file named after the build code, creating the directory if
// needed.
func (p *Preparer) writeStoreListing(code int, body string) (string, error) {
	dir := p.resolve(p.Config.FastlaneDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", p.Config.FastlaneDir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.txt", code))
	p.logf("generating store changelog: %s", path)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing store changelog: %w", err)
	}
	return path, nil
}

// insertMetainfoRelease adds the release entry (newest first) to the metainfo
// document, embedding the rendered description block when configured. A
// missing metainfo file skips the step with a warning; it is not mandatory
// for the release to proceed.
func (p *Preparer) insertMetainfoRelease(path string, ver semver.Version, cleanBody string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		p.warnf("could not read metainfo %s, skipping release entry: %v", p.Config.Metainfo, err)
		return nil
	}
	var desc string
	if p.Config.ReleaseDescription {
		desc = changelog.Parse(cleanBody).MetainfoDescription()
	}
	today := time.Now().Format("2006-01-02")
	p.logf("updating metainfo: %s", path)
	out := manifest.InsertRelease(string(data), ver.String(), today, desc)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing metainfo: %w", err)
	}
	return nil
}

// patchDescriptor rewrites the build descriptor's tag and commit fields. The
// descriptor is optional: a missing file skips silently, an unavailable
// revision hash skips with a warning, and a missing field within the file is
// a no-op for that field.
func (p *Preparer) patchDescriptor(ctx context.Context, path string, ver semver.Version) error {
	data, err := os.ReadFile(path)
	if err != nil {
		p.logf("no build descriptor at %s, skipping", path)
		return nil
	}

	head, err := p.Git.Head(ctx)
	if err != nil {
		p.warnf("could not get git commit hash, skipping descriptor update: %v", err)
		return nil
	}

	text := string(data)
	if out, err := manifest.SetTag(text, ver.String()); err == nil {
		text = out
	} else if !errors.Is(err, manifest.ErrFieldMissing) {
		return err
	}
	if out, err := manifest.SetCommit(text, head); err == nil {
		text = out
	} else if !errors.Is(err, manifest.ErrFieldMissing) {
		return err
	}

	if err := manifest.ValidateYAML(text); err != nil {
		return err
	}
	p.logf("updating build descriptor: %s", path)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing build descriptor: %w", err)
	}
	return nil
}

// regenerateLock runs the configured lock-artifact command, if any. The
// command regenerates its output wholesale; a failure is fatal like any other
// external-tool failure.
func (p *Preparer) regenerateLock(ctx context.Context) error {
	if p.Config.LockCommand == "" {
		return nil
	}
	fields := strings.Fields(p.Config.LockCommand)
	p.logf("regenerating lock artifact: %s", p.Config.LockCommand)
	if _, err := p.runner().Run(ctx, p.Dir, fields[0], fields[1:]...); err != nil {
		return fmt.Errorf("regenerating lock artifact: %w", err)
	}
	return nil
}

func (p *Preparer) runner() cliff.Runner {
	if p.Runner != nil {
		return p.Runner
	}
	return cliff.ExecRunner{}
}

// resolve joins a configured path with the project directory unless it is
// already absolute.
func (p *Preparer) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Dir, path)
}

// existingPaths deduplicates the touched paths and keeps only those present
// on disk; staging must never be handed a path that does not exist.
func existingPaths(paths ...string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, path := range paths {
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			continue
		}
		out = append(out, path)
	}
	return out
}

func (p *Preparer) logf(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintf(p.log(), "[cutover] "+format+"\n", args...)
}

func (p *Preparer) warnf(format string, args ...any) {
	fmt.Fprintf(p.log(), "Warning: "+format+"\n", args...)
}

func (p *Preparer) log() io.Writer {
	if p.Log != nil {
		return p.Log
	}
	return os.Stderr
}
